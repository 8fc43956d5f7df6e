// Package prompush pushes run metrics to a Prometheus Pushgateway.
//
// A batch analysis run is short-lived, so metrics are collected into a
// private registry and pushed once at the end instead of being scraped.
package prompush

import (
	"fmt"

	"github.com/namatanda/haki-data/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // haki_step_total
	stepDuration *prometheus.SummaryVec // haki_step_duration_seconds
	rowCounter   *prometheus.CounterVec // haki_rows_total
	tableRows    *prometheus.CounterVec // haki_table_rows_total
}

// NewBackend constructs a Pushgateway backend. The job name is the grouping
// key on the gateway and defaults to "hakidata".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "hakidata"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Pipeline step duration in seconds by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Case rows by kind (read, cleaned, dropped, criminal, unmapped, ...).",
		},
		[]string{"kind"},
	)
	tableRows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.TableRows,
			Help: "Rows written per result table.",
		},
		[]string{"table"},
	)

	for _, c := range []struct {
		name string
		col  prometheus.Collector
	}{
		{"step counter", stepCounter},
		{"step summary", stepDuration},
		{"row counter", rowCounter},
		{"table rows", tableRows},
	} {
		if err := reg.Register(c.col); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
		tableRows:    tableRows,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.TableRows:
		if b.tableRows == nil {
			return
		}
		b.tableRows.WithLabelValues(labels["table"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
