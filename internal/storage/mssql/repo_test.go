package mssql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uniqcount/internal/storage"
)

func TestMsTable(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"uniqcount_runs", "[uniqcount_runs]"},
		{"dbo.runs", "[dbo].[runs]"},
	}
	for _, c := range cases {
		if got := msTable(c.in); got != c.want {
			t.Fatalf("msTable(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	if got, want := placeholders(2), "@p1, @p2"; got != want {
		t.Fatalf("placeholders(2) = %q, want %q", got, want)
	}
}

func TestNewRepositoryRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "bad_dsn", cfg: Config{DSN: "sqlserver://sa:pw@localhost:notaport"}, wantErr: "mssql dsn"},
		{name: "bad_table", cfg: Config{DSN: "sqlserver://localhost", Table: "dbo.a.b"}, wantErr: "more than two parts"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := NewRepository(context.Background(), c.cfg)
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, c.wantErr)
			}
		})
	}
}

func TestFactoryUsesHook(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	closed := 0
	var gotCfg Config
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{cfg: cfg}, func() { closed++ }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "sqlserver://x", Table: "dbo.runs"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.Table != "dbo.runs" {
		t.Fatalf("hook saw %+v", gotCfg)
	}
	repo.Close()
	if closed != 1 {
		t.Fatalf("close called %d times", closed)
	}

	boom := errors.New("boom")
	newRepository = func(context.Context, Config) (*Repository, func(), error) { return nil, nil, boom }
	if _, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "x"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
