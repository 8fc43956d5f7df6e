// Package storage defines the backend-agnostic sink for result tables and a
// registry of backends. Backend packages register themselves in init; import
// storage/all to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is an open connection to a SQL backend.
type Repository interface {
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// CopyFrom bulk-inserts rows (aligned to columns) into table and returns
	// the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Dialect describes the backend's SQL flavor.
	Dialect() Dialect

	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// twice replaces the earlier factory.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
