package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"uniqcount/internal/storage"
)

func (a *app) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs from the run-report store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listRuns(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list")
	return cmd
}

func (a *app) listRuns(ctx context.Context, limit int) error {
	if a.cfg.Store == "" {
		return errors.New("runs: --store is required")
	}
	repo, err := storage.New(ctx, a.cfg.StorageConfig())
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	runs, err := repo.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTRATEGY\tSIZE\tCHUNKS\tUNIQUE\tONCE\tDURATION\tPATH")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339),
			r.Strategy,
			humanize.Bytes(uint64(r.FileSize)),
			r.Chunks,
			humanize.Comma(r.Distinct),
			humanize.Comma(r.Singletons),
			r.Duration.Truncate(time.Millisecond),
			r.Path,
		)
	}
	return tw.Flush()
}
