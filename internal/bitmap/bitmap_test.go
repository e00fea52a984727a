package bitmap

import (
	"math/rand/v2"
	"testing"
)

func TestAddHas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		add       []uint32
		wantLen   int
		wantPages int
	}{
		{name: "empty", wantLen: 0, wantPages: 0},
		{name: "zero", add: []uint32{0}, wantLen: 1, wantPages: 1},
		{name: "max", add: []uint32{0xFFFFFFFF}, wantLen: 1, wantPages: 1},
		{name: "duplicates", add: []uint32{7, 7, 7}, wantLen: 1, wantPages: 1},
		{name: "word_edges", add: []uint32{63, 64, 65535}, wantLen: 3, wantPages: 1},
		{name: "page_edge", add: []uint32{65535, 65536}, wantLen: 2, wantPages: 2},
		{name: "spread", add: []uint32{0, 1 << 16, 1 << 24, 1 << 31}, wantLen: 4, wantPages: 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := New()
			for _, v := range tt.add {
				b.Add(v)
			}
			for _, v := range tt.add {
				if !b.has(v) {
					t.Fatalf("Has(%d) = false after Add", v)
				}
			}
			if b.Len() != tt.wantLen || b.popcount() != tt.wantLen {
				t.Fatalf("Len/Count = %d/%d, want %d", b.Len(), b.popcount(), tt.wantLen)
			}
			if b.allocated() != tt.wantPages {
				t.Fatalf("allocated pages = %d, want %d", b.allocated(), tt.wantPages)
			}
		})
	}
}

func TestAddReportsNew(t *testing.T) {
	t.Parallel()

	b := New()
	if !b.Add(42) {
		t.Fatalf("first Add(42) reported existing")
	}
	if b.Add(42) {
		t.Fatalf("second Add(42) reported new")
	}
	if b.has(43) || b.has(42+1<<16) {
		t.Fatalf("unset neighbours reported as set")
	}
}

func TestMatchesMap(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	b := New()
	seen := map[uint32]bool{}
	for range 20_000 {
		v := rng.Uint32() % 1_000_003
		if got, want := b.Add(v), !seen[v]; got != want {
			t.Fatalf("Add(%d) = %v, want %v", v, got, want)
		}
		seen[v] = true
	}
	if b.Len() != len(seen) || b.popcount() != len(seen) {
		t.Fatalf("Len/Count = %d/%d, want %d", b.Len(), b.popcount(), len(seen))
	}
}

func BenchmarkAdd(b *testing.B) {
	bm := New()
	rng := rand.New(rand.NewPCG(1, 2))
	vals := make([]uint32, 1<<16)
	for i := range vals {
		vals[i] = rng.Uint32()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bm.Add(vals[i&(len(vals)-1)])
	}
}
