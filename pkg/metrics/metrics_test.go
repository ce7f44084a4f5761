package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTextfile(t *testing.T, m *Manager) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "optametrics.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRecordAndWrite(t *testing.T) {
	m := NewManager()
	m.RecordParse(12, 30, 2)
	m.RecordParse(3, 0, 0)
	m.RecordMatchStored()
	m.RecordExtraction("passes", 5)
	m.RecordExtraction("passes", 1)
	m.RecordExtraction("shots", 0)
	m.ObserveStorage("insert_match", 15*time.Millisecond)
	m.ObserveCommand("parse", time.Second, false)
	m.ObserveCommand("stats", time.Second, true)

	out := readTextfile(t, m)
	assert.Contains(t, out, "optametrics_events_parsed_total 15")
	assert.Contains(t, out, "optametrics_qualifiers_parsed_total 30")
	assert.Contains(t, out, "optametrics_parse_fallbacks_total 2")
	assert.Contains(t, out, "optametrics_matches_stored_total 1")
	assert.Contains(t, out, `optametrics_rows_extracted_total{category="passes"} 6`)
	assert.Contains(t, out, `optametrics_rows_extracted_total{category="shots"} 0`)
	assert.Contains(t, out, `optametrics_storage_duration_seconds_count{op="insert_match"} 1`)
	assert.Contains(t, out, `optametrics_command_errors_total{command="stats"} 1`)
	assert.NotContains(t, out, `optametrics_command_errors_total{command="parse"}`)
}

func TestOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("opta"),
		WithDurationBuckets(0.1, 1),
		WithRegistry(reg),
	)
	assert.Same(t, reg, m.Registry())

	m.ObserveStorage("load_feed", 50*time.Millisecond)
	out := readTextfile(t, m)
	assert.Contains(t, out, `opta_storage_duration_seconds_bucket{op="load_feed",le="0.1"} 1`)
	assert.Contains(t, out, `opta_storage_duration_seconds_bucket{op="load_feed",le="+Inf"} 1`)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.RecordParse(1, 1, 1)
		m.RecordMatchStored()
		m.RecordExtraction("passes", 1)
		m.ObserveStorage("x", time.Second)
		m.ObserveCommand("x", time.Second, true)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestWriteTextfileError(t *testing.T) {
	m := NewManager()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing-dir", "out.prom"))
	assert.ErrorIs(t, err, ErrWriteFailed)
}
