// Package sequential counts records in a single buffered pass over the file.
package sequential

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"uniqcount/internal/datasource"
	"uniqcount/internal/record"
	"uniqcount/internal/strategy"
	"uniqcount/internal/summary"
)

// Name is the registry name of this strategy.
const Name = "sequential"

// DefaultBufferSize is the read size when none is configured.
const DefaultBufferSize = 4096

func init() {
	strategy.Register(Name, func(o strategy.Options) (strategy.Counter, error) {
		return New(o.BufferSize)
	})
}

// Counter reads the whole file front to back through a bufio.Reader.
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
		return nil, fmt.Errorf("sequential: buffer size %d must be a positive multiple of %d", bufSize, record.Width)
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

	counts := make(record.Counts)
	br := bufio.NewReaderSize(f, c.bufSize)
	buf := make([]byte, c.bufSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return summary.Summary{}, err
		}
		n, rerr := io.ReadFull(br, buf)
		if n > 0 {
			if _, err := record.Decode(counts, buf[:n]); err != nil {
				return summary.Summary{}, fmt.Errorf("%s at offset %d: %w", path, read, err)
			}
			read += int64(n)
		}
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
	return summary.Of(counts), nil
}
