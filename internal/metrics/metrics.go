// Package metrics records operational metrics for an analysis run behind a
// pluggable Backend. The default backend is a no-op, so instrumentation is
// always safe to call; cmd/hakidata installs Prometheus Pushgateway or
// Datadog when asked to.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal    = "haki_step_total"
	StepDuration = "haki_step_duration_seconds"
	RowsTotal    = "haki_rows_total"
	TableRows    = "haki_table_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a pipeline step (ingest, clean,
// classify, aggregate, export) and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows adds delta to the row counter of the given kind, e.g. "read",
// "cleaned", "dropped", "criminal", "unmapped", "concluded".
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordTable counts the rows of one produced result table.
func RecordTable(job, table string, rows int) {
	backend.IncCounter(TableRows, float64(rows), Labels{
		"job":   job,
		"table": table,
	})
}
