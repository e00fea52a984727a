// Package datasource opens local record files and classifies the failures
// into the record error kinds, so every strategy reports a missing file or a
// misaligned length the same way.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"uniqcount/internal/record"
)

// Local is a filesystem data source bound to one path.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Size returns the file length in bytes.
//
// A missing path yields record.ErrFileNotFound; any other stat failure, or a
// path that is a directory, yields record.ErrIO. If ctx is already done the
// context error is returned without touching the filesystem.
func (l *Local) Size(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	st, err := os.Stat(l.path)
	if err != nil {
		return 0, classify(l.path, err)
	}
	if st.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", record.ErrIO, l.path)
	}
	return st.Size(), nil
}

// AlignedSize is Size plus the record alignment check.
func (l *Local) AlignedSize(ctx context.Context) (int64, error) {
	size, err := l.Size(ctx)
	if err != nil {
		return 0, err
	}
	if !record.Aligned(size) {
		return 0, fmt.Errorf("%w: %s is %d bytes, not a multiple of %d", record.ErrInvalidFormat, l.path, size, record.Width)
	}
	return size, nil
}

// Open opens the file for reading. The caller owns the returned file.
func (l *Local) Open(ctx context.Context) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, classify(l.path, err)
	}
	return f, nil
}

func classify(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", record.ErrFileNotFound, path)
	}
	return fmt.Errorf("%w: %w", record.ErrIO, err)
}
