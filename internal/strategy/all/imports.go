// Package all wires every built-in counting strategy into the strategy
// registry. Import it for side effects.
package all

import (
	_ "uniqcount/internal/parallel"
	_ "uniqcount/internal/strategy/bitmapped"
	_ "uniqcount/internal/strategy/direct"
	_ "uniqcount/internal/strategy/mmapped"
	_ "uniqcount/internal/strategy/sequential"
)
