// Package store is the gateway between ingestion/query logic and the
// concrete storage backend. One backend is selected at startup from
// configuration: a postgres or mysql URL picks the networked store, otherwise
// the embedded sqlite file is used. Statements are written once with `?`
// placeholders; the gateway translates them for the active dialect.
package store

import (
	"context"
	"fmt"
	"sync"

	"mailstats/internal/config"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Result reports the outcome of a mutating statement. LastID is only
// meaningful for inserts into auto-incrementing tables and is 0 otherwise
// (the postgres driver does not surface insert ids through Exec).
type Result struct {
	LastID       int64
	RowsAffected int64
}

// Store is the backend-agnostic persistence gateway.
type Store interface {
	// QueryRows runs a read-many statement.
	QueryRows(ctx context.Context, query string, args ...any) ([]Row, error)
	// QuerySingle runs a read-one statement. A missing row comes back as a
	// nil Row with a nil error, distinct from a row of null fields.
	QuerySingle(ctx context.Context, query string, args ...any) (Row, error)
	// Exec runs a mutating statement.
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	// InitSchema idempotently ensures the three tables and the date index
	// exist. Safe to call repeatedly and concurrently.
	InitSchema(ctx context.Context) error
	Backend() string
	Close() error
}

// Error wraps a backend failure with enough context for diagnostics. The
// gateway never retries; retry policy belongs to callers.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store[%s] %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Open selects and opens the backend once, driven by configuration presence.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch {
	case cfg.PostgresURL != "":
		return openSQL(BackendPostgres, "postgres", cfg.PostgresURL, cfg)
	case cfg.MySQLURL != "":
		return openSQL(BackendMySQL, "mysql", cfg.MySQLURL, cfg)
	default:
		path := cfg.SQLitePath
		if path == "" {
			path = "email_stats.db"
		}
		return openSQL(BackendSQLite, "sqlite3", path, cfg)
	}
}

var (
	mu           sync.Mutex
	defaultStore Store
)

// Default returns the process-wide gateway, lazily opening it from the
// environment on first use. The handle lives for the process lifetime; each
// driver's own pool provides concurrency safety.
func Default() (Store, error) {
	mu.Lock()
	defer mu.Unlock()
	if defaultStore != nil {
		return defaultStore, nil
	}
	s, err := Open(config.Load("").Database)
	if err != nil {
		return nil, err
	}
	defaultStore = s
	return defaultStore, nil
}

// SetDefault installs an already-opened store as the process-wide gateway.
func SetDefault(s Store) {
	mu.Lock()
	defer mu.Unlock()
	defaultStore = s
}

// Shutdown closes and clears the process-wide gateway. Only test harnesses
// that cycle backends need this.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	if defaultStore == nil {
		return nil
	}
	err := defaultStore.Close()
	defaultStore = nil
	return err
}
