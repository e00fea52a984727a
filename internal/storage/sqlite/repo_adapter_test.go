package sqlite

import (
	"context"
	"errors"
	"testing"

	"uniqcount/internal/storage"
)

// TestFactoryRegistration goes through storage.New to the real in-memory
// backend.
func TestFactoryRegistration(t *testing.T) {
	t.Parallel()

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	runs, err := repo.RecentRuns(context.Background(), 5)
	if err != nil || len(runs) != 0 {
		t.Fatalf("RecentRuns on empty table = %v, %v", runs, err)
	}
}

func TestWrappedRepoClose(t *testing.T) {
	t.Parallel()

	calls := 0
	w := &wrappedRepo{closeFn: func() { calls++ }}
	w.Close()
	if calls != 1 {
		t.Fatalf("closeFn called %d times", calls)
	}
	(&wrappedRepo{}).Close() // nil closeFn is fine
}

// TestFactoryPropagatesError swaps the constructor hook; it must not run in
// parallel with tests that use the real constructor.
func TestFactoryPropagatesError(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	boom := errors.New("boom")
	var gotCfg Config
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return nil, nil, boom
	}

	_, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "x.db", Table: "t"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if gotCfg.DSN != "x.db" || gotCfg.Table != "t" {
		t.Fatalf("hook saw %+v", gotCfg)
	}
}
