// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"uniqcount/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN   string // e.g. "runs.db", "file:runs.db?_pragma=busy_timeout(5000)", ":memory:"
	Table string
}

// timeLayout is fixed width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	cfg   Config
	table string // quoted
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if cfg.Table == "" {
		cfg.Table = storage.DefaultTable
	}
	if err := storage.ValidateTable(cfg.Table); err != nil {
		return nil, nil, fmt.Errorf("sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" databases are
	// per connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg, table: quoteTable(cfg.Table)}, closeFn, nil
}

// quoteTable double-quotes each part of a (schema.)table name.
func quoteTable(name string) string {
	parts := storage.SplitTable(name)
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id              TEXT PRIMARY KEY,
	path            TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	file_size       INTEGER NOT NULL,
	distinct_count  INTEGER NOT NULL,
	singleton_count INTEGER NOT NULL,
	chunks          INTEGER NOT NULL,
	duration_ms     INTEGER NOT NULL,
	started_at      TEXT NOT NULL
)`, r.table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(storage.Columns)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(storage.Columns, ", "), placeholders)

	vals := run.Values()
	vals[len(vals)-1] = run.StartedAt.UTC().Format(timeLayout)
	if _, err := r.db.ExecContext(ctx, q, vals...); err != nil {
		return fmt.Errorf("sqlite: insert run: %w", err)
	}
	return nil
}

func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY started_at DESC LIMIT ?",
		strings.Join(storage.Columns, ", "), r.table)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query runs: %w", err)
	}
	defer rows.Close()

	var out []storage.Run
	for rows.Next() {
		run, err := storage.ScanRunText(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
