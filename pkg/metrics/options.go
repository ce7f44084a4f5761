package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option customises a Manager before its metrics are registered.
type Option func(*Manager)

// WithNamespace prefixes every metric name. An empty name keeps "optametrics".
func WithNamespace(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.namespace = name
		}
	}
}

// WithDurationBuckets replaces the default buckets of the storage and command
// duration histograms.
func WithDurationBuckets(seconds ...float64) Option {
	return func(m *Manager) {
		if len(seconds) > 0 {
			m.durationBuckets = seconds
		}
	}
}

// WithRegistry registers on reg instead of a fresh registry, so a caller can
// gather the CLI metrics together with its own.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}
