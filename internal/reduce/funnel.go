package reduce

import "uniqcount/internal/record"

// funnel serializes folds through a single goroutine that owns the shared
// mapping. Callers never touch the mapping directly.
type funnel struct {
	in     chan record.Counts
	done   chan struct{}
	shared record.Counts
}

// NewFunnel starts a funnel reducer.
func NewFunnel() Reducer {
	f := &funnel{
		in:     make(chan record.Counts, 4),
		done:   make(chan struct{}),
		shared: make(record.Counts),
	}
	go f.loop()
	return f
}

func (f *funnel) loop() {
	defer close(f.done)
	for local := range f.in {
		if len(f.shared) == 0 {
			// First fold: adopt the local mapping instead of copying it.
			f.shared = local
			continue
		}
		Fold(f.shared, local)
	}
}

func (f *funnel) Fold(local record.Counts) {
	if len(local) == 0 {
		return
	}
	f.in <- local
}

func (f *funnel) Close() record.Ranger {
	close(f.in)
	<-f.done
	return f.shared
}
