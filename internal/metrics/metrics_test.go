package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

// swap installs fb for the duration of the test. Tests using it must not run
// in parallel because the backend is global.
func swap(t *testing.T, fb Backend) {
	t.Helper()
	orig := current()
	SetBackend(fb)
	t.Cleanup(func() { SetBackend(orig) })
}

func TestRecordCount_SuccessAndFailure(t *testing.T) {
	fb := &fakeBackend{}
	swap(t, fb)

	RecordCount("jobA", "parallel", nil, 2*time.Second)
	RecordCount("", "sequential", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 || len(fb.callsHistograms) != 2 {
		t.Fatalf("calls = %d counters, %d histograms; want 2, 2", len(fb.callsCounters), len(fb.callsHistograms))
	}

	c0 := fb.callsCounters[0]
	if c0.name != RunsTotal || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want name=%s, delta=1", c0, RunsTotal)
	}
	if c0.labels["job"] != "jobA" || c0.labels["strategy"] != "parallel" || c0.labels["status"] != "success" {
		t.Fatalf("counter[0] labels = %v", c0.labels)
	}
	h0 := fb.callsHistograms[0]
	if h0.name != RunDuration || h0.value < 1.999 || h0.value > 2.001 {
		t.Fatalf("hist[0] = %#v; want %s ~2.0", h0, RunDuration)
	}

	c1 := fb.callsCounters[1]
	if c1.labels["job"] != defaultJobLabel {
		t.Fatalf("counter[1].labels[job] = %q; want default %q", c1.labels["job"], defaultJobLabel)
	}
	if c1.labels["status"] != "failure" {
		t.Fatalf("counter[1].labels[status] = %q; want failure", c1.labels["status"])
	}
}

func TestRecordChunkAndBytes(t *testing.T) {
	fb := &fakeBackend{}
	swap(t, fb)

	RecordChunk("j", ChunkScanned)
	RecordChunk("j", ChunkSuppressed)
	RecordBytes("j", 0) // ignored
	RecordBytes("j", 4096)

	if len(fb.callsCounters) != 3 {
		t.Fatalf("expected 3 counter calls, got %d", len(fb.callsCounters))
	}
	want := []struct {
		name   string
		delta  float64
		status string
	}{
		{ChunksTotal, 1, ChunkScanned},
		{ChunksTotal, 1, ChunkSuppressed},
		{BytesTotal, 4096, ""},
	}
	for i, w := range want {
		c := fb.callsCounters[i]
		if c.name != w.name || c.delta != w.delta || c.labels["status"] != w.status {
			t.Fatalf("counter[%d] = %#v; want %s delta=%v status=%q", i, c, w.name, w.delta, w.status)
		}
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := &fakeBackend{}
	swap(t, fb)

	if current() != fb {
		t.Fatal("SetBackend did not replace global backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount=1, got %d", fb.flushCount)
	}

	SetBackend(nil)
	if current() != fb {
		t.Fatal("SetBackend(nil) should not change backend")
	}
}
