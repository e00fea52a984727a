// Package strategy defines the contract shared by every counting strategy and
// a registry that maps strategy names to factories.
//
// Strategies register themselves from init; import
// uniqcount/internal/strategy/all to wire every built-in strategy.
package strategy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"uniqcount/internal/metrics"
	"uniqcount/internal/reduce"
	"uniqcount/internal/summary"
)

const tracerName = "uniqcount/internal/strategy"

// Counter counts the distinct and singleton records of the file at path.
//
// Every implementation reports failures with the error kinds of package
// record: a missing path is record.ErrFileNotFound, a length that is not a
// multiple of record.Width is record.ErrInvalidFormat, and so on. An empty
// file yields a zero Summary and no error.
type Counter interface {
	Count(ctx context.Context, path string) (summary.Summary, error)
}

// Options configures a strategy. Each strategy reads the fields it needs;
// zero values select that strategy's defaults.
type Options struct {
	ChunkSize  int64       // parallel: max bytes per chunk
	BufferSize int         // read size in bytes
	SeekStep   int64       // parallel: max bytes per positioning step
	Workers    int         // parallel: pool size; 0 means max(1, NumCPU/4)
	Reducer    reduce.Kind // parallel: funnel or striped
	Stripes    int         // parallel: stripe count for the striped reducer
	Job        string      // metrics job label
	Verbose    bool        // log per-run progress
}

// Factory builds a Counter from options.
type Factory func(Options) (Counter, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a strategy available under name. It panics if name is empty,
// f is nil, or name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" || f == nil {
		panic("strategy: Register with empty name or nil factory")
	}
	if _, dup := factories[name]; dup {
		panic("strategy: Register called twice for " + name)
	}
	factories[name] = f
}

// New builds the strategy registered under name. The returned Counter records
// a run metric and a trace span around every Count.
func New(name string, opts Options) (Counter, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q (registered: %v)", name, Names())
	}
	c, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	return &instrumented{name: name, job: opts.Job, next: c}, nil
}

type instrumented struct {
	name string
	job  string
	next Counter
}

func (c *instrumented) Count(ctx context.Context, path string) (summary.Summary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "strategy.Count",
		trace.WithAttributes(
			attribute.String("strategy", c.name),
			attribute.String("file.path", path),
		))
	defer span.End()

	start := time.Now()
	s, err := c.next.Count(ctx, path)
	metrics.RecordCount(c.job, c.name, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary.Summary{}, err
	}
	span.SetAttributes(
		attribute.Int("result.distinct", s.Distinct),
		attribute.Int("result.singletons", s.Singletons),
	)
	return s, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for n := range factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Known reports whether name is registered.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[name]
	return ok
}
