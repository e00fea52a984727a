package config

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"uniqcount/internal/record"
	"uniqcount/internal/reduce"
	"uniqcount/internal/report"
	"uniqcount/internal/storage"
	"uniqcount/internal/strategy"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path names the flag or
// environment variable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// Validate checks c without mutating it. Strategy and store kinds are checked
// against the registries, so the strategy and storage backends must be linked
// in (see strategy/all and storage/all).
func (c *Config) Validate() []Issue {
	issues := slices.Clone(c.envIssues)
	errorf := func(path, format string, args ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, args...)})
	}
	warnf := func(path, format string, args ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, args...)})
	}

	if !strategy.Known(c.Strategy) {
		errorf("strategy", "unknown strategy %q (known: %s)", c.Strategy, strings.Join(strategy.Names(), ", "))
	}
	if c.ChunkSize <= 0 || !record.Aligned(c.ChunkSize) {
		errorf("chunk-size", "must be a positive multiple of %d, got %d", record.Width, c.ChunkSize)
	}
	if c.BufferSize <= 0 || !record.Aligned(int64(c.BufferSize)) {
		errorf("buffer-size", "must be a positive multiple of %d, got %d", record.Width, c.BufferSize)
	}
	if c.SeekStep <= 0 {
		errorf("seek-step", "must be positive, got %d", c.SeekStep)
	}
	switch {
	case c.Workers < 0:
		errorf("workers", "must be >= 0, got %d", c.Workers)
	case c.Workers > runtime.NumCPU():
		warnf("workers", "%d workers exceeds the %d available CPUs", c.Workers, runtime.NumCPU())
	}
	if !slices.Contains(reduce.Kinds(), c.Reducer) {
		errorf("reducer", "unknown reducer %q (known: %s)", c.Reducer, strings.Join(reduce.Kinds(), ", "))
	}
	if c.Stripes < 1 {
		errorf("stripes", "must be >= 1, got %d", c.Stripes)
	}

	switch c.MetricsBackend {
	case MetricsNone, "":
	case MetricsPushgateway:
		if strings.TrimSpace(c.PushgatewayURL) == "" {
			errorf("pushgateway-url", "required for the pushgateway backend")
		}
	case MetricsDatadog:
		if strings.TrimSpace(c.DatadogAddr) == "" {
			errorf("datadog-addr", "required for the datadog backend")
		}
	default:
		errorf("metrics-backend", "unknown backend %q (use none, pushgateway or datadog)", c.MetricsBackend)
	}
	if strings.TrimSpace(c.Job) == "" {
		warnf("job", "empty job name; metrics will use the default label")
	}

	if c.Store != "" {
		if !slices.Contains(storage.Kinds(), c.Store) {
			errorf("store", "unknown store %q (known: %s)", c.Store, strings.Join(storage.Kinds(), ", "))
		}
		if strings.TrimSpace(c.StoreDSN) == "" {
			errorf("store-dsn", "required when --store is set")
		}
		if err := storage.ValidateTable(c.StoreTable); err != nil {
			errorf("store-table", "%v", err)
		}
	} else if c.StoreDSN != "" {
		warnf("store-dsn", "ignored because --store is empty")
	}

	if _, err := report.ParseLocale(c.Locale); err != nil {
		errorf("locale", "%v", err)
	}
	return issues
}
