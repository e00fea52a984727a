// Package record defines the on-disk record format shared by every counting
// strategy: a flat, headerless sequence of 4-byte little-endian unsigned
// integers. It also owns the frequency mapping type and the error kinds that
// scanners and strategies report.
package record

import (
	"encoding/binary"
	"fmt"
)

// Width is the size of one record in bytes.
const Width = 4

// Counts is a frequency mapping from record value to occurrence count.
//
// A Counts value is not safe for concurrent mutation; local mappings are owned
// by a single scanner and the shared mapping is only touched by a reducer.
type Counts map[uint32]uint64

// Ranger is implemented by anything that can enumerate a frequency mapping.
// Iteration stops early when fn returns false.
type Ranger interface {
	Range(fn func(value uint32, count uint64) bool)
}

// Range implements Ranger.
func (c Counts) Range(fn func(value uint32, count uint64) bool) {
	for v, n := range c {
		if !fn(v, n) {
			return
		}
	}
}

// Aligned reports whether n bytes hold a whole number of records.
func Aligned(n int64) bool { return n%Width == 0 }

// Decode counts every record in b into dst. It returns the number of records
// decoded.
//
// b must hold a whole number of records; a trailing partial record is never
// silently dropped and yields ErrInvalidFormat instead.
func Decode(dst Counts, b []byte) (int, error) {
	if len(b)%Width != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidFormat, len(b), Width)
	}
	n := 0
	for i := 0; i+Width <= len(b); i += Width {
		dst[Get(b[i:])]++
		n++
	}
	return n, nil
}

// Put encodes v at the start of b. b must be at least Width bytes long.
func Put(b []byte, v uint32) { binary.LittleEndian.PutUint32(b[:Width], v) }

// Get decodes the record at the start of b. b must be at least Width bytes long.
func Get(b []byte) uint32 { return binary.LittleEndian.Uint32(b[:Width]) }
