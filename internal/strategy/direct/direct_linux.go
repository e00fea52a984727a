//go:build linux

package direct

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"uniqcount/internal/datasource"
	"uniqcount/internal/record"
	"uniqcount/internal/summary"
)

func (c *Counter) Count(ctx context.Context, path string) (summary.Summary, error) {
	size, err := datasource.NewLocal(path).AlignedSize(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	if size == 0 {
		return summary.Summary{}, nil
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return summary.Summary{}, fmt.Errorf("%w: %s", record.ErrFileNotFound, path)
		}
		return summary.Summary{}, fmt.Errorf("%w: open %s: %w", record.ErrIO, path, err)
	}
	defer unix.Close(fd)

	// Best effort: the data is read once.
	_ = unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(fd, 0, size, unix.FADV_NOREUSE)

	counts := make(record.Counts)
	buf := make([]byte, ReadSize)
	var read int64
	for read < size {
		if err := ctx.Err(); err != nil {
			return summary.Summary{}, err
		}
		n, err := unix.Read(fd, buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return summary.Summary{}, fmt.Errorf("%w: read %s at %d: %w", record.ErrIO, path, read, err)
		}
		if n == 0 {
			return summary.Summary{}, fmt.Errorf("%w: %s: read %d of %d bytes", record.ErrUnexpectedEnd, path, read, size)
		}
		if n%record.Width != 0 {
			return summary.Summary{}, fmt.Errorf("%w: %s: read %d bytes at %d, data misaligned", record.ErrInvalidFormat, path, n, read)
		}
		if _, err := record.Decode(counts, buf[:n]); err != nil {
			return summary.Summary{}, err
		}
		read += int64(n)
	}
	return summary.Of(counts), nil
}
