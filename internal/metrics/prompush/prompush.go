// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. Collected metrics are pushed on Flush instead of being
// exposed on a scrape endpoint, which suits a short-lived CLI run.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"uniqcount/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	runCounter   *prometheus.CounterVec // uniqcount_runs_total
	runDuration  *prometheus.SummaryVec // uniqcount_run_duration_seconds
	chunkCounter *prometheus.CounterVec // uniqcount_chunks_total
	bytesCounter prometheus.Counter     // uniqcount_bytes_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway grouping job; gatewayURL is the server base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "uniqcount"
	}

	reg := prometheus.NewRegistry()

	runCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RunsTotal,
			Help: "Counting runs, partitioned by strategy and status.",
		},
		[]string{"strategy", "status"},
	)
	runDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.RunDuration,
			Help:       "Duration of counting runs in seconds, partitioned by strategy and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"strategy", "status"},
	)
	chunkCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.ChunksTotal,
			Help: "Chunk outcomes (scanned, failed, suppressed, skipped, dropped).",
		},
		[]string{"status"},
	)
	bytesCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BytesTotal,
			Help: "Bytes of record data scanned.",
		},
	)

	for _, c := range []struct {
		what string
		col  prometheus.Collector
	}{
		{"run counter", runCounter},
		{"run summary", runDuration},
		{"chunk counter", chunkCounter},
		{"bytes counter", bytesCounter},
	} {
		if err := reg.Register(c.col); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.what, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		runCounter:   runCounter,
		runDuration:  runDuration,
		chunkCounter: chunkCounter,
		bytesCounter: bytesCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.RunsTotal:
		if b.runCounter == nil {
			return
		}
		b.runCounter.WithLabelValues(labels["strategy"], labels["status"]).Add(delta)

	case metrics.ChunksTotal:
		if b.chunkCounter == nil {
			return
		}
		b.chunkCounter.WithLabelValues(labels["status"]).Add(delta)

	case metrics.BytesTotal:
		if b.bytesCounter == nil {
			return
		}
		b.bytesCounter.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.RunDuration || b.runDuration == nil {
		return
	}
	b.runDuration.WithLabelValues(labels["strategy"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
