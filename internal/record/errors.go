package record

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by a strategy wraps exactly one of these,
// so callers can classify it with errors.Is.
var (
	// ErrFileNotFound means the input path does not exist. Nothing is scanned.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFormat means the file length, or a single read, is not a
	// multiple of Width.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnexpectedEnd means a read returned zero bytes before the expected end
	// of the range being scanned.
	ErrUnexpectedEnd = errors.New("unexpected end of data")

	// ErrIO covers positioning that did not land on the expected offset and
	// failures of the underlying storage (open, stat, read).
	ErrIO = errors.New("i/o failure")
)

// ChunkError tags a failure with the index of the chunk that produced it.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// ChunkIndex returns the chunk index carried by err, if any.
func ChunkIndex(err error) (int, bool) {
	var ce *ChunkError
	if errors.As(err, &ce) {
		return ce.Index, true
	}
	return 0, false
}
