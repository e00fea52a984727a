package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"uniqcount/internal/datasource"
	"uniqcount/internal/parallel"
	"uniqcount/internal/report"
	"uniqcount/internal/storage"
	"uniqcount/internal/strategy"
	"uniqcount/internal/summary"
)

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <file>",
		Short: "Count distinct and singleton values in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.count(cmd.Context(), args[0])
		},
	}
}

func (a *app) count(ctx context.Context, path string) error {
	c, err := strategy.New(a.cfg.Strategy, a.cfg.StrategyOptions())
	if err != nil {
		return err
	}
	if a.cfg.Verbose {
		log.Printf("count: strategy=%s file=%s", a.cfg.Strategy, path)
	}

	startedAt := time.Now()
	s, err := c.Count(ctx, path)
	if err != nil {
		return err
	}
	elapsed := time.Since(startedAt)

	if err := report.Write(a.out, s, a.cfg.Locale); err != nil {
		return err
	}
	if a.cfg.Verbose {
		log.Printf("count: completed in %s", elapsed.Truncate(time.Millisecond))
	}

	if a.cfg.Store == "" {
		return nil
	}
	return a.saveRun(ctx, path, s, elapsed, startedAt)
}

func (a *app) saveRun(ctx context.Context, path string, s summary.Summary, elapsed time.Duration, startedAt time.Time) error {
	size, err := datasource.NewLocal(path).Size(ctx)
	if err != nil {
		return err
	}
	run := storage.NewRun(path, a.cfg.Strategy, size, s, chunksFor(a.cfg.Strategy, size, a.cfg.ChunkSize), elapsed, startedAt)

	repo, err := storage.New(ctx, a.cfg.StorageConfig())
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := repo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if a.cfg.Verbose {
		log.Printf("store: saved run %s (%s, %s) to %s table %s",
			run.ID, humanize.Bytes(uint64(size)), run.Strategy, a.cfg.Store, a.cfg.StoreTable)
	}
	return nil
}

// chunksFor is the number of chunks a run of strategy scanned.
func chunksFor(strategy string, size, chunkSize int64) int {
	switch {
	case size <= 0:
		return 0
	case strategy == parallel.Name && chunkSize > 0:
		return int((size + chunkSize - 1) / chunkSize)
	default:
		return 1
	}
}
