// Package direct counts records by reading the file through a raw descriptor
// in fixed 4 KiB reads, bypassing user-space buffering. Only Linux is
// supported; elsewhere the strategy is registered but every Count fails.
package direct

import (
	"errors"

	"uniqcount/internal/strategy"
)

// Name is the registry name of this strategy.
const Name = "direct"

// ReadSize is the byte count requested from each read call.
const ReadSize = 4096

// ErrUnsupported is returned on platforms without a direct reader.
var ErrUnsupported = errors.New("direct: unsupported on this platform")

func init() {
	strategy.Register(Name, func(strategy.Options) (strategy.Counter, error) {
		return New(), nil
	})
}

// Counter is the direct descriptor strategy.
type Counter struct{}

// New returns a Counter.
func New() *Counter { return &Counter{} }
