// Package chunk partitions a record file into contiguous byte ranges that can
// be scanned independently.
package chunk

import (
	"fmt"

	"uniqcount/internal/record"
)

// DefaultMaxSize is the default upper bound of one chunk in bytes.
const DefaultMaxSize = 100_000_000

// Chunk is the half-open byte range [Start, End) of the file assigned to one
// scanner.
type Chunk struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of bytes in the chunk.
func (c Chunk) Len() int64 { return c.End - c.Start }

// Records returns the number of records in the chunk.
func (c Chunk) Records() int64 { return c.Len() / record.Width }

func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d [%d, %d)", c.Index, c.Start, c.End)
}

// Plan splits [0, fileSize) into chunks of at most maxSize bytes, ordered by
// index. The last chunk takes the remainder.
//
// fileSize must be a multiple of record.Width, otherwise Plan returns
// record.ErrInvalidFormat and no chunks. An empty file yields no chunks and no
// error. maxSize must be positive and a multiple of record.Width so every
// boundary falls between records.
func Plan(fileSize, maxSize int64) ([]Chunk, error) {
	if fileSize < 0 {
		return nil, fmt.Errorf("%w: negative file size %d", record.ErrInvalidFormat, fileSize)
	}
	if !record.Aligned(fileSize) {
		return nil, fmt.Errorf("%w: file size %d is not a multiple of %d", record.ErrInvalidFormat, fileSize, record.Width)
	}
	if maxSize <= 0 || !record.Aligned(maxSize) {
		return nil, fmt.Errorf("%w: chunk size %d must be a positive multiple of %d", record.ErrInvalidFormat, maxSize, record.Width)
	}
	if fileSize == 0 {
		return nil, nil
	}

	n := int((fileSize + maxSize - 1) / maxSize)
	out := make([]Chunk, n)
	for i := range n {
		start := int64(i) * maxSize
		out[i] = Chunk{
			Index: i,
			Start: start,
			End:   min(start+maxSize, fileSize),
		}
	}
	return out, nil
}
