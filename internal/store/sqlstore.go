package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"mailstats/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type sqlStore struct {
	db      *sql.DB
	backend string

	initOnce sync.Once
	initErr  error
}

func openSQL(backend, driver, dsn string, cfg config.DatabaseConfig) (Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &Error{Backend: backend, Op: "open", Err: err}
	}
	if backend != BackendSQLite {
		// Networked backends share a small bounded pool instead of one
		// connection per request.
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	return &sqlStore{db: db, backend: backend}, nil
}

func (s *sqlStore) Backend() string { return s.backend }

func (s *sqlStore) Close() error { return s.db.Close() }

func (s *sqlStore) QueryRows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, &Error{Backend: s.backend, Op: "query", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &Error{Backend: s.backend, Op: "query columns", Err: err}
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &Error{Backend: s.backend, Op: "scan", Err: err}
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Backend: s.backend, Op: "rows", Err: err}
	}
	return out, nil
}

func (s *sqlStore) QuerySingle(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := s.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *sqlStore) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return Result{}, &Error{Backend: s.backend, Op: "exec", Err: err}
	}
	var r Result
	// lib/pq has no LastInsertId; treat it as 0 rather than an error.
	if id, err := res.LastInsertId(); err == nil {
		r.LastID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		r.RowsAffected = n
	}
	return r, nil
}

// rebind translates the `?` placeholder convention into the dialect the
// active backend expects. Only postgres needs ordinals; `?` inside
// single-quoted literals is left alone.
func (s *sqlStore) rebind(query string) string {
	if s.backend != BackendPostgres {
		return query
	}
	return toOrdinalParams(query)
}
