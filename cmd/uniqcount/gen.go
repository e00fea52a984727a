package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"uniqcount/internal/record"
	"uniqcount/internal/recordfile"
)

func (a *app) genCmd() *cobra.Command {
	var (
		n       int64
		pattern string
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Write a record file for testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := recordfile.GenerateFile(args[0], n, recordfile.Pattern(pattern), seed); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s records (%s) to %s\n",
				humanize.Comma(n), humanize.Bytes(uint64(n*record.Width)), args[0])
			return nil
		},
	}
	cmd.Flags().Int64Var(&n, "count", 1_000_000, "Number of records")
	cmd.Flags().StringVar(&pattern, "pattern", string(recordfile.Sequential), "Value pattern: sequential, random or repeat")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the random pattern")
	return cmd
}
