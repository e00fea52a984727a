//go:build !linux

package scan

func adviseSequential(fd uintptr, off, n int64) {}
