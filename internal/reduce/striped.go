package reduce

import (
	"sync"

	"github.com/zeebo/xxh3"

	"uniqcount/internal/record"
)

type stripe struct {
	mu sync.Mutex
	m  record.Counts
}

type entry struct {
	v uint32
	n uint64
}

// striped is a lock-striped shared mapping. A key always lives in the stripe
// selected by the xxh3 hash of its little-endian encoding.
type striped struct {
	stripes []stripe
	scratch sync.Pool // *[][]entry, one bucket per stripe
}

// NewStriped returns a striped reducer with n stripes (n >= 1).
func NewStriped(n int) Reducer {
	if n < 1 {
		n = 1
	}
	s := &striped{stripes: make([]stripe, n)}
	for i := range s.stripes {
		s.stripes[i].m = make(record.Counts)
	}
	s.scratch.New = func() any {
		b := make([][]entry, n)
		return &b
	}
	return s
}

func stripeOf(v uint32, n int) int {
	var b [record.Width]byte
	record.Put(b[:], v)
	return int(xxh3.Hash(b[:]) % uint64(n))
}

func (s *striped) Fold(local record.Counts) {
	if len(local) == 0 {
		return
	}
	n := len(s.stripes)

	bp := s.scratch.Get().(*[][]entry)
	buckets := *bp
	defer func() {
		for i := range buckets {
			buckets[i] = buckets[i][:0]
		}
		s.scratch.Put(bp)
	}()

	for v, c := range local {
		i := stripeOf(v, n)
		buckets[i] = append(buckets[i], entry{v, c})
	}
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		st := &s.stripes[i]
		st.mu.Lock()
		for _, e := range bucket {
			st.m[e.v] += e.n
		}
		st.mu.Unlock()
	}
}

// Close returns the table itself; folds are synchronous, so nothing is
// pending once every Fold call has returned.
func (s *striped) Close() record.Ranger { return s }

// Range visits every key of every stripe.
func (s *striped) Range(fn func(value uint32, count uint64) bool) {
	for i := range s.stripes {
		st := &s.stripes[i]
		st.mu.Lock()
		m := st.m
		st.mu.Unlock()
		for v, n := range m {
			if !fn(v, n) {
				return
			}
		}
	}
}
