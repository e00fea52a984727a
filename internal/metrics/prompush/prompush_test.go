package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"uniqcount/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "j", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "uniqcount"},
		{name: "explicit job name is preserved", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend(%q, %q) = %v, %v; want nil, error", tt.jobName, tt.gatewayURL, b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q, %q) error = %v", tt.jobName, tt.gatewayURL, err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("backend.jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
			if b.runCounter == nil || b.runDuration == nil || b.chunkCounter == nil || b.bytesCounter == nil {
				t.Fatalf("collectors not initialized: %+v", b)
			}
		})
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("uniqcount", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"strategy": "parallel", "status": "success"})
	b.IncCounter(metrics.ChunksTotal, 3, metrics.Labels{"status": "scanned"})
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"status": "suppressed"})
	b.IncCounter(metrics.BytesTotal, 4096, metrics.Labels{})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	checks := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"runs", b.runCounter.WithLabelValues("parallel", "success"), 1},
		{"chunks scanned", b.chunkCounter.WithLabelValues("scanned"), 3},
		{"chunks suppressed", b.chunkCounter.WithLabelValues("suppressed"), 1},
		{"chunks failed", b.chunkCounter.WithLabelValues("failed"), 0},
		{"bytes", b.bytesCounter, 4096},
	}
	for _, c := range checks {
		if got := readCounterValue(t, c.c); got != c.want {
			t.Fatalf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIncCounterNilMetrics(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"strategy": "s", "status": "success"})
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"status": "scanned"})
	b.IncCounter(metrics.BytesTotal, 1, nil)
	b.ObserveHistogram(metrics.RunDuration, 1, nil)
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("uniqcount", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	lbls := metrics.Labels{"strategy": "mmap", "status": "success"}
	b.ObserveHistogram(metrics.RunDuration, 1.5, lbls)
	b.ObserveHistogram("other_metric", 2.0, lbls)

	n, sum := readSummaryCountSum(t, b.runDuration, "mmap", "success")
	if n != 1 || sum != 1.5 {
		t.Fatalf("summary = (%d, %v), want (1, 1.5)", n, sum)
	}
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushRequestInfo struct {
		method  string
		path    string
		bodyLen int
	}
	reqCh := make(chan pushRequestInfo, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushRequestInfo{method: r.Method, path: r.URL.Path, bodyLen: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("uniqcount-job", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"status": "scanned"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushRequestInfo
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() did not result in any HTTP request to the Pushgateway")
	}
	if got.method == "" || got.path == "" || got.bodyLen == 0 {
		t.Fatalf("push request = %+v, want method, path and body", got)
	}
}

func BenchmarkIncCounterChunk(b *testing.B) {
	backend, err := NewBackend("uniqcount", "http://example.com")
	if err != nil {
		b.Fatalf("NewBackend() error = %v", err)
	}
	labels := metrics.Labels{"status": "scanned"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.IncCounter(metrics.ChunksTotal, 1, labels)
	}
}
