package sqlite

import (
	"context"
	"testing"

	"github.com/namatanda/haki-data/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "sqlite" backend
// registered in init() uses the newRepository hook and that wrappedRepo
// delegates Close.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		called bool
		gotCfg Config
		closed bool
		fake   = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: "file:haki.db"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if !called {
		t.Fatalf("newRepository hook was not called")
	}
	if gotCfg.DSN != "file:haki.db" {
		t.Errorf("hook cfg.DSN = %q", gotCfg.DSN)
	}
	w, ok := repo.(*wrappedRepo)
	if !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	if w.Repository != fake {
		t.Fatalf("wrappedRepo.Repository = %p, want %p", w.Repository, fake)
	}
	repo.Close()
	if !closed {
		t.Fatalf("wrappedRepo.Close() did not invoke closeFn")
	}
}
