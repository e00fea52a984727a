package parallel

import "sync"

// firstFailure decides the outcome of a parallel run: the first task failure
// it observes is authoritative and every later one is suppressed.
//
// Folds into the shared mapping run through whileHealthy, which holds the read
// side of the lock. observe takes the write side, so once it returns no fold
// is in flight and none can start.
type firstFailure struct {
	mu  sync.RWMutex
	err error
}

// observe records err and reports whether it was the first failure.
func (f *firstFailure) observe(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false
	}
	f.err = err
	return true
}

func (f *firstFailure) failed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err != nil
}

// whileHealthy runs fn if no failure has been recorded and reports whether it
// ran. No failure can be recorded while fn runs.
func (f *firstFailure) whileHealthy(fn func()) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.err != nil {
		return false
	}
	fn()
	return true
}
