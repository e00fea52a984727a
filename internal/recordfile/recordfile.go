// Package recordfile writes record files: flat sequences of 4-byte
// little-endian values. It backs the `gen` command and the test fixtures of
// the counting packages.
package recordfile

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"uniqcount/internal/record"
)

// Pattern selects how Generate produces values.
type Pattern string

const (
	// Sequential writes 0..n-1, so every value is distinct and a singleton.
	Sequential Pattern = "sequential"
	// Random writes n pseudo-random values from a seeded PCG source.
	Random Pattern = "random"
	// Repeat writes every value twice (0,0,1,1,...), so nothing is a singleton.
	Repeat Pattern = "repeat"
)

const writeBufSize = 1 << 20

// Write creates (or truncates) path and writes vals to it.
func Write(path string, vals []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriterSize(f, writeBufSize)
	if err := WriteTo(bw, vals); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteTo encodes vals to w.
func WriteTo(w io.Writer, vals []uint32) error {
	var b [record.Width]byte
	for _, v := range vals {
		record.Put(b[:], v)
		if _, err := w.Write(b[:]); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

// Generate writes n records following pattern to w.
func Generate(w io.Writer, n int64, pattern Pattern, seed uint64) error {
	if n < 0 {
		return fmt.Errorf("record count must be >= 0, got %d", n)
	}
	var next func(i int64) uint32
	switch pattern {
	case Sequential, "":
		next = func(i int64) uint32 { return uint32(i) }
	case Random:
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		next = func(int64) uint32 { return rng.Uint32() }
	case Repeat:
		next = func(i int64) uint32 { return uint32(i / 2) }
	default:
		return fmt.Errorf("unknown pattern %q (use sequential, random or repeat)", pattern)
	}

	bw := bufio.NewWriterSize(w, writeBufSize)
	var b [record.Width]byte
	for i := int64(0); i < n; i++ {
		record.Put(b[:], next(i))
		if _, err := bw.Write(b[:]); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// GenerateFile is Generate into a newly created file at path.
func GenerateFile(path string, n int64, pattern Pattern, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Generate(f, n, pattern, seed); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
