package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// rowOf is a RowScanner over fixed values, assigned by pointer type.
type rowOf []any

func (r rowOf) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d dest for %d values", len(dest), len(r))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *int64:
			*p = r[i].(int64)
		case *time.Time:
			*p = r[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}
	return nil
}

func TestScanRun(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	started := time.Date(2025, 6, 1, 8, 0, 0, 123_000_000, time.UTC)

	r, err := ScanRun(rowOf{id.String(), "/a", "parallel", int64(16), int64(3), int64(2), int64(1), int64(250), started})
	if err != nil {
		t.Fatalf("ScanRun: %v", err)
	}
	if r.ID != id || r.Duration != 250*time.Millisecond || !r.StartedAt.Equal(started) || r.Distinct != 3 {
		t.Fatalf("ScanRun = %+v", r)
	}

	text := started.Format("2006-01-02T15:04:05.000000000Z07:00")
	r, err = ScanRunText(rowOf{strings.ToUpper(id.String()), "/a", "mmap", int64(4), int64(1), int64(1), int64(1), int64(0), text})
	if err != nil {
		t.Fatalf("ScanRunText: %v", err)
	}
	if r.ID != id || !r.StartedAt.Equal(started) {
		t.Fatalf("ScanRunText = %+v", r)
	}
}

func TestScanRunErrors(t *testing.T) {
	t.Parallel()

	good := uuid.New().String()
	cases := []struct {
		name string
		fn   func(RowScanner) (Run, error)
		row  rowOf
	}{
		{name: "bad_id", fn: ScanRun, row: rowOf{"not-a-uuid", "", "", int64(0), int64(0), int64(0), int64(0), int64(0), time.Time{}}},
		{name: "bad_time", fn: ScanRunText, row: rowOf{good, "", "", int64(0), int64(0), int64(0), int64(0), int64(0), "yesterday"}},
		{name: "short_row", fn: ScanRun, row: rowOf{good}},
	}
	for _, c := range cases {
		if _, err := c.fn(c.row); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}

	boom := errors.New("boom")
	if _, err := ScanRun(failingRow{boom}); !errors.Is(err, boom) {
		t.Fatalf("ScanRun err = %v, want %v", err, boom)
	}
}

type failingRow struct{ err error }

func (f failingRow) Scan(...any) error { return f.err }
