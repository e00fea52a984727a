package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RowScanner is satisfied by *sql.Row, *sql.Rows and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanRun reads one row whose columns are Columns, in order, with started_at
// decoded by the driver into a time.Time.
func ScanRun(rs RowScanner) (Run, error) {
	var started time.Time
	r, err := scanRun(rs, &started)
	if err != nil {
		return Run{}, err
	}
	r.StartedAt = started.UTC()
	return r, nil
}

// ScanRunText is ScanRun for backends that store started_at as RFC 3339 text.
func ScanRunText(rs RowScanner) (Run, error) {
	var started string
	r, err := scanRun(rs, &started)
	if err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("storage: parse started_at %q: %w", started, err)
	}
	r.StartedAt = t.UTC()
	return r, nil
}

func scanRun(rs RowScanner, started any) (Run, error) {
	var (
		r      Run
		id     string
		millis int64
	)
	if err := rs.Scan(&id, &r.Path, &r.Strategy, &r.FileSize, &r.Distinct,
		&r.Singletons, &r.Chunks, &millis, started); err != nil {
		return Run{}, fmt.Errorf("storage: scan run: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("storage: parse run id %q: %w", id, err)
	}
	r.ID = parsed
	r.Duration = time.Duration(millis) * time.Millisecond
	return r, nil
}
