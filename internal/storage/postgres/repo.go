// Package postgres implements a Postgres run-report repository using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"uniqcount/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // optionally schema-qualified, e.g. "public.uniqcount_runs"
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	cfg   Config
	table string // sanitized
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.Table == "" {
		cfg.Table = storage.DefaultTable
	}
	if err := storage.ValidateTable(cfg.Table); err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg, table: pgTable(cfg.Table)}, closeFn, nil
}

// pgTable converts "schema.table" into a sanitized pgx identifier.
func pgTable(name string) string {
	return pgx.Identifier(storage.SplitTable(name)).Sanitize()
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id              UUID PRIMARY KEY,
	path            TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	file_size       BIGINT NOT NULL,
	distinct_count  BIGINT NOT NULL,
	singleton_count BIGINT NOT NULL,
	chunks          BIGINT NOT NULL,
	duration_ms     BIGINT NOT NULL,
	started_at      TIMESTAMPTZ NOT NULL
)`, r.table)
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(storage.Columns, ", "), placeholders(len(storage.Columns)))
	if _, err := r.pool.Exec(ctx, q, run.Values()...); err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}
	return nil
}

func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	cols := make([]string, len(storage.Columns))
	copy(cols, storage.Columns)
	cols[0] = "id::text"
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY started_at DESC LIMIT $1",
		strings.Join(cols, ", "), r.table)

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query runs: %w", err)
	}
	defer rows.Close()

	var out []storage.Run
	for rows.Next() {
		run, err := storage.ScanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}
