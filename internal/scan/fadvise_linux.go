//go:build linux

package scan

import "golang.org/x/sys/unix"

// advice is applied to a chunk's range before it is read. Read-ahead is left
// to the kernel's sequential heuristics so concurrent scanners do not each
// prefetch a whole chunk.
var advice = []int{unix.FADV_SEQUENTIAL}

// adviseSequential hints the kernel that [off, off+n) will be read once,
// front to back. Best effort; errors are ignored.
func adviseSequential(fd uintptr, off, n int64) {
	for _, a := range advice {
		_ = unix.Fadvise(int(fd), off, n, a)
	}
}
