//go:build !linux

package direct

import (
	"context"

	"uniqcount/internal/summary"
)

func (c *Counter) Count(context.Context, string) (summary.Summary, error) {
	return summary.Summary{}, ErrUnsupported
}
