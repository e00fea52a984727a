// Package config centralizes uniqcount configuration. Every tunable is a
// command-line flag whose default is seeded from an environment variable, so
// explicit flags win over the environment and the environment wins over the
// built-in default.
//
// For tests, pass a private FlagSet and a map-backed getenv:
//
//	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
//	getenv := func(k string) string { return env[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"--workers=4"})
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"uniqcount/internal/chunk"
	"uniqcount/internal/reduce"
	"uniqcount/internal/scan"
	"uniqcount/internal/storage"
	"uniqcount/internal/strategy"
)

// Metrics backends.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// Config holds all process configuration derived from flags and environment
// variables. It is a plain value and safe to copy after construction.
type Config struct {
	// Counting.
	Strategy   string
	ChunkSize  int64
	BufferSize int
	SeekStep   int64
	Workers    int // 0 means max(1, NumCPU/4)
	Reducer    string
	Stripes    int

	// Metrics.
	MetricsBackend string
	PushgatewayURL string
	DatadogAddr    string
	Job            string

	// Run-report store; an empty Store disables it.
	Store      string
	StoreDSN   string
	StoreTable string

	Locale  string
	Verbose bool

	// envIssues collects environment values that could not be parsed.
	envIssues []Issue
}

// Bind defines every flag on fs with defaults seeded from getenv and returns
// the Config the flags write into. Values are final once fs is parsed.
func Bind(fs *pflag.FlagSet, getenv func(string) string) *Config {
	cfg := &Config{}

	str := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	i64 := func(k string, d int64) int64 {
		v := strings.TrimSpace(getenv(k))
		if v == "" {
			return d
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			cfg.envIssues = append(cfg.envIssues, Issue{
				Severity: SeverityWarning,
				Path:     k,
				Message:  fmt.Sprintf("ignoring non-integer value %q, using %d", v, d),
			})
			return d
		}
		return n
	}
	integer := func(k string, d int) int { return int(i64(k, int64(d))) }
	boolean := func(k string, d bool) bool {
		switch v := strings.ToLower(strings.TrimSpace(getenv(k))); v {
		case "":
			return d
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		default:
			cfg.envIssues = append(cfg.envIssues, Issue{
				Severity: SeverityWarning,
				Path:     k,
				Message:  fmt.Sprintf("ignoring non-boolean value %q", v),
			})
			return d
		}
	}

	fs.StringVar(&cfg.Strategy, "strategy", str("UNIQ_STRATEGY", "parallel"), "Counting strategy: parallel, sequential, direct, mmap or bitmap")
	fs.Int64Var(&cfg.ChunkSize, "chunk-size", i64("UNIQ_CHUNK_SIZE", chunk.DefaultMaxSize), "Parallel: max bytes per chunk (multiple of 4)")
	fs.IntVar(&cfg.BufferSize, "buffer-size", integer("UNIQ_BUFFER_SIZE", scan.DefaultBufferSize), "Read size in bytes (multiple of 4)")
	fs.Int64Var(&cfg.SeekStep, "seek-step", i64("UNIQ_SEEK_STEP", scan.DefaultSeekStep), "Parallel: max bytes per positioning step")
	fs.IntVar(&cfg.Workers, "workers", integer("UNIQ_WORKERS", 0), "Parallel: worker count (0 = a quarter of the CPUs)")
	fs.StringVar(&cfg.Reducer, "reducer", str("UNIQ_REDUCER", string(reduce.Funnel)), "Parallel: reducer, funnel or striped")
	fs.IntVar(&cfg.Stripes, "stripes", integer("UNIQ_STRIPES", reduce.DefaultStripes), "Parallel: lock stripes for the striped reducer")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", str("METRICS_BACKEND", MetricsNone), "Metrics backend: none, pushgateway or datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", str("PUSHGATEWAY_URL", "http://localhost:9091"), "Prometheus Pushgateway base URL")
	fs.StringVar(&cfg.DatadogAddr, "datadog-addr", str("DATADOG_ADDR", "127.0.0.1:8125"), "DogStatsD address")
	fs.StringVar(&cfg.Job, "job", str("UNIQ_JOB", "uniqcount"), "Job name used in metric labels")

	fs.StringVar(&cfg.Store, "store", str("UNIQ_STORE", ""), "Run-report store: sqlite, postgres, mssql or mysql (empty disables)")
	fs.StringVar(&cfg.StoreDSN, "store-dsn", getenv("UNIQ_STORE_DSN"), "Run-report store DSN")
	fs.StringVar(&cfg.StoreTable, "store-table", str("UNIQ_STORE_TABLE", storage.DefaultTable), "Run-report table, optionally schema-qualified")

	fs.StringVar(&cfg.Locale, "locale", str("UNIQ_LOCALE", "en"), "Locale for number formatting")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", boolean("UNIQ_VERBOSE", false), "Log progress")

	return cfg
}

// LoadFromArgs binds the flags on fs and parses args.
func LoadFromArgs(fs *pflag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := Bind(fs, getenv)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StrategyOptions maps the counting settings onto strategy.Options.
func (c *Config) StrategyOptions() strategy.Options {
	return strategy.Options{
		ChunkSize:  c.ChunkSize,
		BufferSize: c.BufferSize,
		SeekStep:   c.SeekStep,
		Workers:    c.Workers,
		Reducer:    reduce.Kind(c.Reducer),
		Stripes:    c.Stripes,
		Job:        c.Job,
		Verbose:    c.Verbose,
	}
}

// StorageConfig maps the store settings onto storage.Config.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{Kind: c.Store, DSN: c.StoreDSN, Table: c.StoreTable}
}
