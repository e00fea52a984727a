package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uniqcount/internal/report"
	"uniqcount/internal/strategy"
	"uniqcount/internal/strategy/direct"
	"uniqcount/internal/summary"
)

func (a *app) compareCmd() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Run several strategies on one file and check that they agree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compare(cmd.Context(), args[0], names)
		},
	}
	cmd.Flags().StringSliceVar(&names, "strategies", nil, "Strategies to compare (default: all registered)")
	return cmd
}

func (a *app) compare(ctx context.Context, path string, names []string) error {
	if len(names) == 0 {
		names = strategy.Names()
	}

	var (
		first     summary.Summary
		firstName string
	)
	for _, name := range names {
		c, err := strategy.New(name, a.cfg.StrategyOptions())
		if err != nil {
			return err
		}
		start := time.Now()
		s, err := c.Count(ctx, path)
		if errors.Is(err, direct.ErrUnsupported) {
			fmt.Fprintf(a.out, "%-10s skipped: %v\n", name, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := report.WriteStrategy(a.out, name, s, time.Since(start), a.cfg.Locale); err != nil {
			return err
		}

		if firstName == "" {
			first, firstName = s, name
			continue
		}
		if s != first {
			return fmt.Errorf("strategies disagree: %s=%+v %s=%+v", firstName, first, name, s)
		}
	}
	return nil
}
