// Package mmapped counts records by memory-mapping the file read-only and
// decoding it in place.
package mmapped

import (
	"context"
	"fmt"

	"github.com/edsrzf/mmap-go"

	"uniqcount/internal/datasource"
	"uniqcount/internal/record"
	"uniqcount/internal/strategy"
	"uniqcount/internal/summary"
)

// Name is the registry name of this strategy.
const Name = "mmap"

// window is how many mapped bytes are decoded between context checks.
const window = 1 << 20

func init() {
	strategy.Register(Name, func(strategy.Options) (strategy.Counter, error) {
		return New(), nil
	})
}

// Counter is the memory-mapped strategy.
type Counter struct{}

// New returns a Counter.
func New() *Counter { return &Counter{} }

func (c *Counter) Count(ctx context.Context, path string) (summary.Summary, error) {
	src := datasource.NewLocal(path)
	size, err := src.AlignedSize(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	// A zero-length mapping is rejected by the OS.
	if size == 0 {
		return summary.Summary{}, nil
	}

	f, err := src.Open(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("%w: mmap %s: %w", record.ErrIO, path, err)
	}
	defer m.Unmap()

	if int64(len(m)) != size {
		return summary.Summary{}, fmt.Errorf("%w: %s: mapped %d of %d bytes", record.ErrUnexpectedEnd, path, len(m), size)
	}

	counts := make(record.Counts)
	for off := 0; off < len(m); off += window {
		if err := ctx.Err(); err != nil {
			return summary.Summary{}, err
		}
		end := min(off+window, len(m))
		if _, err := record.Decode(counts, m[off:end]); err != nil {
			return summary.Summary{}, fmt.Errorf("%s at offset %d: %w", path, off, err)
		}
	}
	return summary.Of(counts), nil
}
