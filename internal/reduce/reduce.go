// Package reduce folds the local frequency mappings produced by chunk scanners
// into one shared mapping.
//
// Two reducers share the Reducer contract:
//   - funnel: one goroutine owns the shared mapping and applies folds in the
//     order they arrive;
//   - striped: the shared mapping is split into lock-protected stripes and
//     callers fold concurrently, one lock acquisition per stripe per fold.
//
// Both produce the same mapping regardless of fold order.
package reduce

import (
	"fmt"
	"sort"

	"uniqcount/internal/record"
)

// Kind names a reducer implementation.
type Kind string

const (
	Funnel  Kind = "funnel"
	Striped Kind = "striped"
)

// DefaultStripes is the stripe count used when none is given.
const DefaultStripes = 64

// Reducer accumulates local mappings into a shared one.
//
// Fold is safe for concurrent use and must not be called after Close. It takes
// ownership of local; the caller must not read or write it afterwards. Close
// waits until every fold that was accepted has been applied and returns the
// shared mapping; it may only be called once.
type Reducer interface {
	Fold(local record.Counts)
	Close() record.Ranger
}

// New returns a reducer of the given kind. stripes only matters for Striped;
// values below 1 select DefaultStripes.
func New(kind Kind, stripes int) (Reducer, error) {
	if err := Valid(kind); err != nil {
		return nil, err
	}
	if kind == Striped {
		if stripes < 1 {
			stripes = DefaultStripes
		}
		return NewStriped(stripes), nil
	}
	return NewFunnel(), nil
}

// Valid reports whether kind names a reducer. The empty kind means Funnel.
// Unlike New it starts nothing.
func Valid(kind Kind) error {
	switch kind {
	case Funnel, Striped, "":
		return nil
	default:
		return fmt.Errorf("reduce: unknown reducer %q (known: %v)", kind, Kinds())
	}
}

// Kinds lists the known reducer kinds, sorted.
func Kinds() []string {
	out := []string{string(Funnel), string(Striped)}
	sort.Strings(out)
	return out
}

// Fold adds every count in src to dst. It is the merge every reducer applies;
// it is associative and commutative.
func Fold(dst, src record.Counts) {
	for v, n := range src {
		dst[v] += n
	}
}
