// Package mysql implements a MySQL run-report repository on database/sql with
// the go-sql-driver/mysql driver.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"uniqcount/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // e.g. "user:pass@tcp(localhost:3306)/ops"
	Table string // optionally database-qualified, e.g. "ops.uniqcount_runs"
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	cfg   Config
	table string // backtick-quoted
}

// normalizeDSN parses dsn and forces the options this repository relies on.
func normalizeDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	// started_at is scanned into time.Time.
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.Table == "" {
		cfg.Table = storage.DefaultTable
	}
	if err := storage.ValidateTable(cfg.Table); err != nil {
		return nil, nil, fmt.Errorf("mysql: %w", err)
	}
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, table: myTable(cfg.Table)}, closeFn, nil
}

// myTable backtick-quotes each part of a (db.)table name.
func myTable(name string) string {
	parts := storage.SplitTable(name)
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id              CHAR(36) NOT NULL PRIMARY KEY,
	path            TEXT NOT NULL,
	strategy        VARCHAR(64) NOT NULL,
	file_size       BIGINT NOT NULL,
	distinct_count  BIGINT NOT NULL,
	singleton_count BIGINT NOT NULL,
	chunks          BIGINT NOT NULL,
	duration_ms     BIGINT NOT NULL,
	started_at      DATETIME(6) NOT NULL
)`, r.table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mysql: create table: %w", err)
	}
	return nil
}

func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(storage.Columns)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(storage.Columns, ", "), placeholders)
	if _, err := r.db.ExecContext(ctx, q, run.Values()...); err != nil {
		return fmt.Errorf("mysql: insert run: %w", err)
	}
	return nil
}

func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY started_at DESC LIMIT ?",
		strings.Join(storage.Columns, ", "), r.table)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("mysql: query runs: %w", err)
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
