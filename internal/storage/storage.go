// Package storage persists run reports: one row per counting run with the
// file, the strategy and the resulting counts. The frequency table itself is
// never stored.
//
// Backends register a Factory for their kind from init; import
// uniqcount/internal/storage/all to wire every built-in backend.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"uniqcount/internal/summary"
)

// DefaultTable is the table used when Config.Table is empty.
const DefaultTable = "uniqcount_runs"

// Run is one stored counting run.
type Run struct {
	ID         uuid.UUID
	Path       string
	Strategy   string
	FileSize   int64
	Distinct   int64
	Singletons int64
	Chunks     int64
	Duration   time.Duration
	StartedAt  time.Time
}

// NewRun builds a Run with a fresh random ID.
func NewRun(path, strategy string, fileSize int64, s summary.Summary, chunks int, d time.Duration, startedAt time.Time) Run {
	return Run{
		ID:         uuid.New(),
		Path:       path,
		Strategy:   strategy,
		FileSize:   fileSize,
		Distinct:   int64(s.Distinct),
		Singletons: int64(s.Singletons),
		Chunks:     int64(chunks),
		Duration:   d,
		StartedAt:  startedAt.UTC(),
	}
}

// Columns lists the run table columns in the order of Run.Values.
var Columns = []string{
	"id", "path", "strategy", "file_size", "distinct_count",
	"singleton_count", "chunks", "duration_ms", "started_at",
}

// Values returns the column values of r in Columns order. The ID is rendered
// as its canonical string and the duration in milliseconds.
func (r Run) Values() []any {
	return []any{
		r.ID.String(), r.Path, r.Strategy, r.FileSize, r.Distinct,
		r.Singletons, r.Chunks, r.Duration.Milliseconds(), r.StartedAt,
	}
}

// Config selects and configures a backend.
type Config struct {
	Kind  string // "sqlite", "postgres", "mssql", "mysql"
	DSN   string // backend-specific connection string
	Table string // optionally schema-qualified, e.g. "metrics.uniqcount_runs"
}

// Repository stores run reports.
type Repository interface {
	// EnsureSchema creates the run table if it does not exist.
	EnsureSchema(ctx context.Context) error
	// SaveRun inserts one run.
	SaveRun(ctx context.Context, r Run) error
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	// Close releases the connection pool.
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. It is called from
// backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New validates cfg and opens the Repository registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if err := ValidateTable(cfg.Table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("storage %s: DSN must not be empty", cfg.Kind)
	}
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateTable accepts "table" or "schema.table" where each part is a plain
// SQL identifier. Backends still quote the parts when building statements.
func ValidateTable(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("storage: table %q has more than two parts", name)
	}
	for _, p := range parts {
		if !identRe.MatchString(p) {
			return fmt.Errorf("storage: invalid table identifier %q", name)
		}
	}
	return nil
}

// SplitTable splits a validated table name into its parts.
func SplitTable(name string) []string { return strings.Split(name, ".") }
