package prompush

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/namatanda/haki-data/internal/metrics"
)

type nop struct{}

func (nop) IncCounter(string, float64, metrics.Labels)       {}
func (nop) ObserveHistogram(string, float64, metrics.Labels) {}
func (nop) Flush() error                                     { return nil }

// install makes b the process backend for the duration of the test.
func install(t *testing.T, b *Backend) {
	t.Helper()
	metrics.SetBackend(b)
	t.Cleanup(func() { metrics.SetBackend(nop{}) })
}

// gathered flattens reg into "name{label=value,...}" keys.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	return flatten(mfs)
}

// flatten maps counters to their value and summaries to their sample count.
func flatten(mfs []*dto.MetricFamily) map[string]float64 {
	out := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var lbls []string
			for _, lp := range m.GetLabel() {
				lbls = append(lbls, lp.GetName()+"="+lp.GetValue())
			}
			key := mf.GetName() + "{" + strings.Join(lbls, ",") + "}"
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetSummary() != nil:
				out[key] = float64(m.GetSummary().GetSampleCount())
			}
		}
	}
	return out
}

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend("hc-2023-24", ""); err == nil {
		t.Fatal("NewBackend accepted an empty gateway URL")
	}
	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "hakidata" {
		t.Fatalf("default job = %q, want hakidata", b.jobName)
	}
	if got := gathered(t, b.reg); len(got) != 0 {
		t.Fatalf("fresh registry has samples: %v", got)
	}
}

func TestRunMetricsReachRegistry(t *testing.T) {
	b, err := NewBackend("hc-2023-24", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	install(t, b)

	const job = "hc-2023-24"
	metrics.RecordStep(job, "clean", nil, 40*time.Millisecond)
	metrics.RecordRows(job, "read", 7)
	metrics.RecordRows(job, "dropped", 2)
	metrics.RecordStep(job, "aggregate", nil, 10*time.Millisecond)
	metrics.RecordTable(job, "resolved_cases", 2)
	metrics.RecordTable(job, "unmapped_case_types", 0)
	metrics.RecordStep(job, "export", errors.New("storage: connection refused"), time.Second)
	// a second file read later in the same process accumulates
	metrics.RecordRows(job, "read", 3)
	b.IncCounter("haki_unknown_total", 1, metrics.Labels{"kind": "read"})

	want := map[string]float64{
		"haki_step_total{status=success,step=clean}":                1,
		"haki_step_total{status=success,step=aggregate}":            1,
		"haki_step_total{status=failure,step=export}":               1,
		"haki_step_duration_seconds{status=success,step=clean}":     1,
		"haki_step_duration_seconds{status=success,step=aggregate}": 1,
		"haki_step_duration_seconds{status=failure,step=export}":    1,
		"haki_rows_total{kind=read}":                                10,
		"haki_rows_total{kind=dropped}":                             2,
		"haki_table_rows_total{table=resolved_cases}":               2,
		"haki_table_rows_total{table=unmapped_case_types}":          0,
	}
	if diff := cmp.Diff(want, gathered(t, b.reg)); diff != "" {
		t.Fatalf("registry (-want +got):\n%s", diff)
	}
}

func TestZeroBackendIgnoresSamples(t *testing.T) {
	var b Backend
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": "read"})
	b.ObserveHistogram(metrics.StepDuration, 1, metrics.Labels{"step": "clean"})
}

func TestFlush(t *testing.T) {
	type pushed struct {
		method, path string
		body         []byte
	}
	reqs := make(chan pushed, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs <- pushed{r.Method, r.URL.Path, body}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("hc-2023-24", server.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	install(t, b)
	metrics.RecordTable("hc-2023-24", "adjourned_stats", 6)

	if err := metrics.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	select {
	case got := <-reqs:
		if got.method != http.MethodPut || got.path != "/metrics/job/hc-2023-24" {
			t.Fatalf("push = %s %s, want PUT /metrics/job/hc-2023-24", got.method, got.path)
		}
		if !strings.Contains(string(got.body), metrics.TableRows) {
			t.Fatalf("push body does not carry %s", metrics.TableRows)
		}
	default:
		t.Fatal("Flush sent nothing to the gateway")
	}
}
