// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from counting runs.
//
// A global backend defaults to a no-op implementation, so instrumented code
// can always call the Record helpers. Concrete systems (Pushgateway, DogStatsD)
// live in subpackages and are installed with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names.
const (
	RunsTotal       = "uniqcount_runs_total"
	RunDuration     = "uniqcount_run_duration_seconds"
	ChunksTotal     = "uniqcount_chunks_total"
	BytesTotal      = "uniqcount_bytes_total"
	defaultJobLabel = "uniqcount"
)

// Chunk outcome statuses reported through RecordChunk.
const (
	ChunkScanned    = "scanned"    // scanned and folded into the shared mapping
	ChunkFailed     = "failed"     // the scan failure that decided the run
	ChunkSuppressed = "suppressed" // a later scan failure, not reported
	ChunkSkipped    = "skipped"    // never scanned because the run had already failed
	ChunkDropped    = "dropped"    // scanned, but the run failed before the fold
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

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

func jobOrDefault(job string) string {
	if job == "" {
		return defaultJobLabel
	}
	return job
}

// RecordCount records one counting run: a counter and a duration, both
// labelled with the strategy and a success/failure status.
func RecordCount(job, strategy string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":      jobOrDefault(job),
		"strategy": strategy,
		"status":   status,
	}
	b := current()
	b.IncCounter(RunsTotal, 1, lbls)
	b.ObserveHistogram(RunDuration, d.Seconds(), lbls)
}

// RecordChunk counts one chunk outcome. status is one of the Chunk* constants.
func RecordChunk(job, status string) {
	current().IncCounter(ChunksTotal, 1, Labels{
		"job":    jobOrDefault(job),
		"status": status,
	})
}

// RecordBytes adds n scanned bytes.
func RecordBytes(job string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(BytesTotal, float64(n), Labels{
		"job": jobOrDefault(job),
	})
}
