package store

import (
	"context"
	"strings"
	"time"

	"mailstats/internal/logger"
)

// initTimeout bounds schema setup so a slow backend cannot deadlock
// first-request initialization. On expiry the call reports success and the
// warning goes to the log.
const initTimeout = 10 * time.Second

func (s *sqlStore) InitSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.createSchema(ctx)
	})
	return s.initErr
}

func (s *sqlStore) createSchema(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.runSchemaStatements(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(initTimeout):
		logger.Warn("schema init timed out, continuing", "backend", s.backend, "timeout", initTimeout)
		return nil
	}
}

func (s *sqlStore) runSchemaStatements(ctx context.Context) error {
	for _, stmt := range s.schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			if isAlreadyExists(err) {
				continue
			}
			return &Error{Backend: s.backend, Op: "init schema", Err: err}
		}
	}
	return nil
}

func (s *sqlStore) schemaStatements() []string {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	switch s.backend {
	case BackendPostgres:
		idCol = "BIGSERIAL PRIMARY KEY"
	case BackendMySQL:
		idCol = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS auth_users (
			id ` + idCol + `,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id ` + idCol + `,
			email VARCHAR(255) UNIQUE NOT NULL,
			user_name VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS daily_stats (
			id ` + idCol + `,
			user_id BIGINT NOT NULL,
			date VARCHAR(10) NOT NULL,
			total_emails INTEGER DEFAULT 0,
			emails_sent INTEGER DEFAULT 0,
			emails_received INTEGER DEFAULT 0,
			files_edited INTEGER DEFAULT 0,
			files_viewed INTEGER DEFAULT 0,
			gmail_imap_last_used VARCHAR(255),
			gmail_web_last_used VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users (id),
			UNIQUE (user_id, date)
		)`,
	}
	// mysql has no CREATE INDEX IF NOT EXISTS; the duplicate error is
	// swallowed by isAlreadyExists instead.
	if s.backend == BackendMySQL {
		stmts = append(stmts, `CREATE INDEX idx_date ON daily_stats (date)`)
	} else {
		stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_date ON daily_stats (date)`)
	}
	return stmts
}

func isAlreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate key name")
}
