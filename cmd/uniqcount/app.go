package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"uniqcount/internal/config"
	"uniqcount/internal/metrics"
	"uniqcount/internal/metrics/datadog"
	"uniqcount/internal/metrics/prompush"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfg    *config.Config
	root   *cobra.Command
	out    io.Writer
	errOut io.Writer

	flush func() // set once a metrics backend is installed
}

func newApp(getenv func(string) string, out, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut}
	a.root = &cobra.Command{
		Use:   "uniqcount",
		Short: "Count distinct and singleton values in a binary uint32 file",
		Long: `uniqcount reads a file of 4-byte little-endian unsigned integers and reports
how many distinct values it holds and how many values occur exactly once.

Every flag can also be set through the environment variable named in its help.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.root.SetOut(out)
	a.root.SetErr(errOut)
	a.cfg = config.Bind(a.root.PersistentFlags(), getenv)

	a.root.AddCommand(
		a.countCmd(),
		a.compareCmd(),
		a.genCmd(),
		a.runsCmd(),
	)
	return a
}

// run executes the command line and flushes metrics whatever the outcome.
func (a *app) run(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(ctx)
	if a.flush != nil {
		a.flush()
	}
	return err
}

// setup validates the configuration and installs the metrics backend.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	issues := a.cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(a.errOut, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	a.setupMetrics()
	return nil
}

func (a *app) setupMetrics() {
	var (
		b   metrics.Backend
		err error
	)
	switch a.cfg.MetricsBackend {
	case config.MetricsPushgateway:
		b, err = prompush.NewBackend(a.cfg.Job, a.cfg.PushgatewayURL)
	case config.MetricsDatadog:
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       a.cfg.DatadogAddr,
			Namespace:  "uniqcount.",
			GlobalTags: []string{"job:" + a.cfg.Job},
		})
	default:
		if a.cfg.Verbose {
			log.Printf("metrics: disabled (backend=%q)", a.cfg.MetricsBackend)
		}
		return
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", a.cfg.MetricsBackend, err)
		return
	}
	if a.cfg.Verbose {
		log.Printf("metrics: backend=%s job_name=%s", a.cfg.MetricsBackend, a.cfg.Job)
	}
	metrics.SetBackend(b)
	a.flush = func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
