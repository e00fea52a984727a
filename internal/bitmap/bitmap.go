// Package bitmap provides a sparse bitset over the full uint32 range. The
// high 16 bits of a value select a page and the low 16 bits a bit within it;
// pages are allocated on first use, so a set of clustered values stays small
// while the worst case (every page touched) is bounded at 512 MiB.
package bitmap

import "math/bits"

const (
	pageBits  = 16
	pageWords = 1 << pageBits / 64 // 1024 words, 8 KiB
	pageCount = 1 << (32 - pageBits)
)

type page [pageWords]uint64

// Bitmap is a set of uint32 values. The zero value is not usable; call New.
// A Bitmap is not safe for concurrent mutation.
type Bitmap struct {
	pages []*page
	n     int
}

// New returns an empty Bitmap.
func New() *Bitmap {
	return &Bitmap{pages: make([]*page, pageCount)}
}

// Add sets v and reports whether it was newly added.
func (b *Bitmap) Add(v uint32) bool {
	p := b.pages[v>>pageBits]
	if p == nil {
		p = new(page)
		b.pages[v>>pageBits] = p
	}
	w, bit := (v&0xFFFF)/64, uint64(1)<<(v%64)
	if p[w]&bit != 0 {
		return false
	}
	p[w] |= bit
	b.n++
	return true
}

func (b *Bitmap) has(v uint32) bool {
	p := b.pages[v>>pageBits]
	if p == nil {
		return false
	}
	return p[(v&0xFFFF)/64]&(uint64(1)<<(v%64)) != 0
}

// Len returns the number of values in the set.
func (b *Bitmap) Len() int { return b.n }

func (b *Bitmap) allocated() int {
	n := 0
	for _, p := range b.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// popcount recomputes the set size from the pages.
func (b *Bitmap) popcount() int {
	n := 0
	for _, p := range b.pages {
		if p == nil {
			continue
		}
		for _, w := range p {
			n += bits.OnesCount64(w)
		}
	}
	return n
}
