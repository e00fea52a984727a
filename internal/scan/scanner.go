// Package scan reads one chunk of a record file into a local frequency
// mapping. Each Scan call opens its own cursor on the file, so any number of
// chunks can be scanned concurrently without sharing state.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"uniqcount/internal/chunk"
	"uniqcount/internal/record"
)

const (
	// DefaultBufferSize is the read size per call while scanning a chunk.
	DefaultBufferSize = 64 << 10 // 64 KiB

	// DefaultSeekStep bounds how far a single positioning step may move the
	// cursor. Some storage backends mishandle very large relative seeks.
	DefaultSeekStep = 256 << 10 // 256 KiB

	// localMapHint caps the initial capacity of a local mapping.
	localMapHint = 1 << 16
)

// Source is one independent read cursor on the input file.
// *os.File satisfies it.
type Source interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Opener opens a fresh Source for path.
type Opener func(path string) (Source, error)

// OpenFile is the default Opener.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Options tunes a Scanner. Zero values select the defaults.
type Options struct {
	BufferSize int    // bytes per read; must be a multiple of record.Width
	SeekStep   int64  // max bytes per positioning step
	Open       Opener // cursor factory; nil means OpenFile
}

func (o Options) withDefaults() Options {
	out := o
	if out.BufferSize <= 0 {
		out.BufferSize = DefaultBufferSize
	}
	if out.SeekStep <= 0 {
		out.SeekStep = DefaultSeekStep
	}
	if out.Open == nil {
		out.Open = OpenFile
	}
	return out
}

// Scanner scans chunks of one file of a known size.
// It is safe for concurrent use; every Scan owns its cursor and scratch buffer.
type Scanner struct {
	path     string
	fileSize int64
	opts     Options
	bufs     sync.Pool
}

// New returns a Scanner for the file at path, which is fileSize bytes long.
func New(path string, fileSize int64, opts Options) (*Scanner, error) {
	opts = opts.withDefaults()
	if opts.BufferSize%record.Width != 0 {
		return nil, fmt.Errorf("scan: buffer size %d is not a multiple of %d", opts.BufferSize, record.Width)
	}
	s := &Scanner{path: path, fileSize: fileSize, opts: opts}
	s.bufs.New = func() any {
		b := make([]byte, s.opts.BufferSize)
		return &b
	}
	return s, nil
}

// Scan reads chunk c and returns its local frequency mapping.
//
// Every failure is a *record.ChunkError carrying c.Index and wrapping one of
// the record error kinds:
//   - record.ErrIO when c lies outside the file, the cursor cannot be opened,
//     positioning does not land exactly on c.Start, or a read fails;
//   - record.ErrUnexpectedEnd when a read returns no bytes before c.End;
//   - record.ErrInvalidFormat when a read returns a partial record.
func (s *Scanner) Scan(ctx context.Context, c chunk.Chunk) (record.Counts, error) {
	local, err := s.scan(ctx, c)
	if err != nil {
		return nil, &record.ChunkError{Index: c.Index, Err: err}
	}
	return local, nil
}

func (s *Scanner) scan(ctx context.Context, c chunk.Chunk) (record.Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Start < 0 || c.End > s.fileSize || c.Start > c.End {
		return nil, fmt.Errorf("%w: invalid chunk range start=%d end=%d file_size=%d",
			record.ErrIO, c.Start, c.End, s.fileSize)
	}

	src, err := s.opts.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", record.ErrIO, s.path, err)
	}
	defer src.Close()

	if f, ok := src.(interface{ Fd() uintptr }); ok {
		adviseSequential(f.Fd(), c.Start, c.Len())
	}

	if err := s.seekTo(src, c.Start); err != nil {
		return nil, err
	}

	bp := s.bufs.Get().(*[]byte)
	defer s.bufs.Put(bp)
	buf := *bp

	local := make(record.Counts, min(c.Records(), localMapHint))
	for pos := c.Start; pos < c.End; {
		want := int(min(int64(len(buf)), c.End-pos))
		n, rerr := src.Read(buf[:want])
		if n == 0 {
			if rerr != nil && !errors.Is(rerr, io.EOF) {
				return nil, fmt.Errorf("%w: read at %d: %w", record.ErrIO, pos, rerr)
			}
			return nil, fmt.Errorf("%w: empty read at %d, expected data up to %d", record.ErrUnexpectedEnd, pos, c.End)
		}
		if n%record.Width != 0 {
			return nil, fmt.Errorf("%w: read %d bytes at %d, data misaligned", record.ErrInvalidFormat, n, pos)
		}
		if _, err := record.Decode(local, buf[:n]); err != nil {
			return nil, err
		}
		pos += int64(n)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, fmt.Errorf("%w: read at %d: %w", record.ErrIO, pos, rerr)
		}
	}
	return local, nil
}

// seekTo moves src from its current position to off in steps of at most
// SeekStep bytes and verifies the final position.
func (s *Scanner) seekTo(src Source, off int64) error {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: seek: %w", record.ErrIO, err)
	}
	for pos < off {
		step := min(s.opts.SeekStep, off-pos)
		next, err := src.Seek(step, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("%w: seek to %d: %w", record.ErrIO, off, err)
		}
		if next <= pos {
			break
		}
		pos = next
	}
	if pos != off {
		return fmt.Errorf("%w: seek failed, expected %d, found %d", record.ErrIO, off, pos)
	}
	return nil
}
