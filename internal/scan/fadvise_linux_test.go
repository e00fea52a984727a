//go:build linux

package scan

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/sys/unix"
)

func TestAdviceIsSequentialOnly(t *testing.T) {
	t.Parallel()

	if !slices.Equal(advice, []int{unix.FADV_SEQUENTIAL}) {
		t.Fatalf("advice = %v, want only FADV_SEQUENTIAL (%d)", advice, unix.FADV_SEQUENTIAL)
	}
	if slices.Contains(advice, unix.FADV_WILLNEED) {
		t.Fatalf("advice prefetches whole chunks: %v", advice)
	}
}

func TestAdviseSequentialOnRealFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "f.bin")
	if err := os.WriteFile(p, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	adviseSequential(f.Fd(), 16, 32) // must not panic; errors are ignored
}
