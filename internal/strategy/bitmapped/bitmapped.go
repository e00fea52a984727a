// Package bitmapped counts records with two sparse bitmaps instead of a
// frequency map: one marks values seen at least once, the other values seen
// more than once. Memory depends on how the values cluster, not on how many
// records the file holds.
package bitmapped

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"uniqcount/internal/bitmap"
	"uniqcount/internal/datasource"
	"uniqcount/internal/record"
	"uniqcount/internal/strategy"
	"uniqcount/internal/summary"
)

// Name is the registry name of this strategy.
const Name = "bitmap"

// DefaultBufferSize is the read size when none is configured.
const DefaultBufferSize = 64 << 10

func init() {
	strategy.Register(Name, func(o strategy.Options) (strategy.Counter, error) {
		return New(o.BufferSize)
	})
}

// Counter reads the file front to back and marks values in the bitmaps.
type Counter struct {
	bufSize int
}

// New returns a Counter reading bufSize bytes at a time (0 means
// DefaultBufferSize).
func New(bufSize int) (*Counter, error) {
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	if bufSize < 0 || !record.Aligned(int64(bufSize)) {
		return nil, fmt.Errorf("bitmap: buffer size %d must be a positive multiple of %d", bufSize, record.Width)
	}
	return &Counter{bufSize: bufSize}, nil
}

func (c *Counter) Count(ctx context.Context, path string) (summary.Summary, error) {
	src := datasource.NewLocal(path)
	size, err := src.AlignedSize(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	if size == 0 {
		return summary.Summary{}, nil
	}

	f, err := src.Open(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	defer f.Close()

	seen, repeated := bitmap.New(), bitmap.New()
	br := bufio.NewReaderSize(f, c.bufSize)
	buf := make([]byte, c.bufSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return summary.Summary{}, err
		}
		n, rerr := io.ReadFull(br, buf)
		if n%record.Width != 0 {
			return summary.Summary{}, fmt.Errorf("%w: %s: %d trailing bytes at offset %d",
				record.ErrInvalidFormat, path, n%record.Width, read+int64(n-n%record.Width))
		}
		for i := 0; i < n; i += record.Width {
			if v := record.Get(buf[i:]); !seen.Add(v) {
				repeated.Add(v)
			}
		}
		read += int64(n)
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return summary.Summary{}, fmt.Errorf("%w: read %s: %w", record.ErrIO, path, rerr)
		}
	}
	if read != size {
		return summary.Summary{}, fmt.Errorf("%w: %s: read %d of %d bytes", record.ErrUnexpectedEnd, path, read, size)
	}
	return summary.Summary{
		Distinct:   seen.Len(),
		Singletons: seen.Len() - repeated.Len(),
	}, nil
}
