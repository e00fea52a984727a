// Package summary reduces a final frequency mapping to the two reported
// quantities.
package summary

import "uniqcount/internal/record"

// Summary is the result of a counting run.
type Summary struct {
	Distinct   int // number of distinct record values
	Singletons int // number of values that occur exactly once
}

// Of computes the summary of r in one pass. r is not modified.
func Of(r record.Ranger) Summary {
	var s Summary
	if r == nil {
		return s
	}
	r.Range(func(_ uint32, n uint64) bool {
		s.Distinct++
		if n == 1 {
			s.Singletons++
		}
		return true
	})
	return s
}
