// Package metrics records Prometheus counters and histograms for a single
// CLI run and can dump them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns a registry and the metrics registered on it. A nil *Manager
// is valid and records nothing.
type Manager struct {
	namespace       string
	durationBuckets []float64
	registry        *prometheus.Registry

	eventsParsed     prometheus.Counter
	qualifiersParsed prometheus.Counter
	parseFallbacks   prometheus.Counter
	matchesStored    prometheus.Counter
	rowsExtracted    *prometheus.CounterVec
	storageDuration  *prometheus.HistogramVec
	commandDuration  *prometheus.HistogramVec
	commandErrors    *prometheus.CounterVec
}

// NewManager creates a manager on a fresh registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "optametrics",
		durationBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_parsed_total",
		Help:      "Total number of feed events decoded",
	})
	m.qualifiersParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "qualifiers_parsed_total",
		Help:      "Total number of event qualifiers decoded",
	})
	m.parseFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "parse_fallbacks_total",
		Help:      "Attributes that were missing or unparsable and fell back to a sentinel",
	})
	m.matchesStored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matches_stored_total",
		Help:      "Matches written to the database",
	})
	m.rowsExtracted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_extracted_total",
		Help:      "Rows produced by category extraction",
	}, []string{"category"})
	m.storageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "storage_duration_seconds",
		Help:      "Duration of database operations",
		Buckets:   m.durationBuckets,
	}, []string{"op"})
	m.commandDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "command_duration_seconds",
		Help:      "Wall time of CLI commands",
		Buckets:   m.durationBuckets,
	}, []string{"command"})
	m.commandErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "command_errors_total",
		Help:      "CLI commands that returned an error",
	}, []string{"command"})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordParse adds the totals of one decoded feed.
func (m *Manager) RecordParse(events, qualifiers, fallbacks int) {
	if m == nil {
		return
	}
	m.eventsParsed.Add(float64(events))
	m.qualifiersParsed.Add(float64(qualifiers))
	m.parseFallbacks.Add(float64(fallbacks))
}

// RecordMatchStored counts one successful insert.
func (m *Manager) RecordMatchStored() {
	if m == nil {
		return
	}
	m.matchesStored.Inc()
}

// RecordExtraction adds the row count of one extracted table.
func (m *Manager) RecordExtraction(category string, rows int) {
	if m == nil {
		return
	}
	m.rowsExtracted.WithLabelValues(category).Add(float64(rows))
}

// ObserveStorage records how long a database operation took.
func (m *Manager) ObserveStorage(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveCommand records a finished command; failed marks it as errored.
func (m *Manager) ObserveCommand(command string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.commandDuration.WithLabelValues(command).Observe(d.Seconds())
	if failed {
		m.commandErrors.WithLabelValues(command).Inc()
	}
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is written atomically (temp file and rename).
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	return nil
}
