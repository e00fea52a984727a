// Package parallel is the chunk-partitioned counting strategy. The file is
// split into chunks, each chunk is scanned on its own cursor by a bounded
// worker pool, and the local results are folded into one shared mapping.
package parallel

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"uniqcount/internal/chunk"
	"uniqcount/internal/datasource"
	"uniqcount/internal/metrics"
	"uniqcount/internal/record"
	"uniqcount/internal/reduce"
	"uniqcount/internal/scan"
	"uniqcount/internal/strategy"
	"uniqcount/internal/summary"
)

// Name is the registry name of this strategy.
const Name = "parallel"

const tracerName = "uniqcount/internal/parallel"

func init() {
	strategy.Register(Name, func(o strategy.Options) (strategy.Counter, error) {
		return New(o)
	})
}

// DefaultWorkers is a quarter of the CPUs, at least one.
func DefaultWorkers() int { return max(1, runtime.NumCPU()/4) }

// Counter runs the parallel strategy.
type Counter struct {
	chunkSize  int64
	bufferSize int
	seekStep   int64
	workers    int
	reducer    reduce.Kind
	stripes    int
	job        string
	verbose    bool

	open scan.Opener // nil means scan.OpenFile
}

// New validates o and returns a Counter.
func New(o strategy.Options) (*Counter, error) {
	c := &Counter{
		chunkSize:  o.ChunkSize,
		bufferSize: o.BufferSize,
		seekStep:   o.SeekStep,
		workers:    o.Workers,
		reducer:    o.Reducer,
		stripes:    o.Stripes,
		job:        o.Job,
		verbose:    o.Verbose,
	}
	if c.chunkSize == 0 {
		c.chunkSize = chunk.DefaultMaxSize
	}
	if c.bufferSize == 0 {
		c.bufferSize = scan.DefaultBufferSize
	}
	if c.workers == 0 {
		c.workers = DefaultWorkers()
	}
	if c.reducer == "" {
		c.reducer = reduce.Funnel
	}

	switch {
	case c.chunkSize < 0 || !record.Aligned(c.chunkSize):
		return nil, fmt.Errorf("parallel: chunk size %d must be a positive multiple of %d", c.chunkSize, record.Width)
	case c.bufferSize < 0 || !record.Aligned(int64(c.bufferSize)):
		return nil, fmt.Errorf("parallel: buffer size %d must be a positive multiple of %d", c.bufferSize, record.Width)
	case c.workers < 0:
		return nil, fmt.Errorf("parallel: workers must be >= 0, got %d", c.workers)
	}
	if err := reduce.Valid(c.reducer); err != nil {
		return nil, fmt.Errorf("parallel: %w", err)
	}
	return c, nil
}

// Count implements strategy.Counter.
//
// Tasks never cancel each other. When a chunk fails, its error becomes the
// result, tasks that have not started yet skip their scan, and no further
// local mapping reaches the reducer. Running scans finish and are discarded.
func (c *Counter) Count(ctx context.Context, path string) (summary.Summary, error) {
	start := time.Now()

	size, err := datasource.NewLocal(path).Size(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	chunks, err := chunk.Plan(size, c.chunkSize)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(chunks) == 0 {
		return summary.Summary{}, nil
	}

	sc, err := scan.New(path, size, scan.Options{
		BufferSize: c.bufferSize,
		SeekStep:   c.seekStep,
		Open:       c.open,
	})
	if err != nil {
		return summary.Summary{}, err
	}
	red, err := reduce.New(c.reducer, c.stripes)
	if err != nil {
		return summary.Summary{}, err
	}

	workers := min(c.workers, len(chunks))
	if c.verbose {
		log.Printf("parallel: %s (%s) in %d chunks, %d workers, %s reducer",
			path, humanize.Bytes(uint64(size)), len(chunks), workers, c.reducer)
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("file.size", size),
		attribute.Int("parallel.chunks", len(chunks)),
		attribute.Int("parallel.workers", workers),
		attribute.String("parallel.reducer", string(c.reducer)),
	)

	var (
		ff firstFailure
		g  errgroup.Group
	)
	g.SetLimit(workers)
	for _, ch := range chunks {
		g.Go(func() error { return c.runChunk(ctx, sc, red, &ff, ch) })
	}
	// Only the task that records the first failure returns it, and a plain
	// Group cancels nothing, so Wait yields exactly that failure.
	err = g.Wait()
	shared := red.Close()
	if err != nil {
		return summary.Summary{}, err
	}
	s := summary.Of(shared)
	if c.verbose {
		log.Printf("parallel: %s done in %s: %d distinct, %d singletons",
			path, time.Since(start).Round(time.Millisecond), s.Distinct, s.Singletons)
	}
	return s, nil
}

// runChunk scans and folds one chunk. It returns the chunk's error only when
// that error is the first failure of the run.
func (c *Counter) runChunk(ctx context.Context, sc *scan.Scanner, red reduce.Reducer, ff *firstFailure, ch chunk.Chunk) error {
	if ff.failed() {
		metrics.RecordChunk(c.job, metrics.ChunkSkipped)
		return nil
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "parallel.chunk",
		trace.WithAttributes(
			attribute.Int("chunk.index", ch.Index),
			attribute.Int64("chunk.start", ch.Start),
			attribute.Int64("chunk.end", ch.End),
		))
	defer span.End()

	local, err := sc.Scan(ctx, ch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !ff.observe(err) {
			metrics.RecordChunk(c.job, metrics.ChunkSuppressed)
			return nil
		}
		metrics.RecordChunk(c.job, metrics.ChunkFailed)
		if c.verbose {
			log.Printf("parallel: %v", err)
		}
		return err
	}

	if !ff.whileHealthy(func() { red.Fold(local) }) {
		span.AddEvent("chunk.dropped")
		metrics.RecordChunk(c.job, metrics.ChunkDropped)
		return nil
	}
	metrics.RecordChunk(c.job, metrics.ChunkScanned)
	metrics.RecordBytes(c.job, ch.Len())
	return nil
}
