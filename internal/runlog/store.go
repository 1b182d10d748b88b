// Package runlog persists one record per phase execution so operators can
// audit what ran through each extension point. The registry itself stays
// in-memory; this is an execution trail, not registry state.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Entry represents one persisted phase execution.
type Entry struct {
	InvocationID string
	Phase        string
	Key          string
	Hook         string
	DurationMS   int64
	ErrorMessage string
	CreatedAt    time.Time
}

// Writer persists run log entries.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// Reader lists recent run log entries, newest first.
type Reader interface {
	List(ctx context.Context, limit int) ([]Entry, error)
}

// NoopWriter ignores all log writes.
type NoopWriter struct{}

func (NoopWriter) Write(_ context.Context, _ Entry) error { return nil }

// SQLStore persists entries to SQLite/Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed run log at dsn.
// An empty dsn defaults to ferrohooks-runs.db in the working directory.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "ferrohooks-runs.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite run log: %w", err)
	}
	s := &SQLStore{db: db, dialect: "sqlite"}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore opens a Postgres-backed run log.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres run log: %w", err)
	}
	s := &SQLStore{db: db, dialect: "postgres"}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) init() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("ping %s run log: %w", s.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS run_logs (
	id INTEGER PRIMARY KEY,
	invocation_id TEXT,
	phase TEXT NOT NULL,
	key TEXT NOT NULL,
	hook TEXT,
	duration_ms INTEGER NOT NULL,
	error_message TEXT,
	created_at TIMESTAMP NOT NULL
);`

	if s.dialect == "postgres" {
		ddl = `
CREATE TABLE IF NOT EXISTS run_logs (
	id BIGSERIAL PRIMARY KEY,
	invocation_id TEXT,
	phase TEXT NOT NULL,
	key TEXT NOT NULL,
	hook TEXT,
	duration_ms INTEGER NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);`
	}

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize run log schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Write(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO run_logs(invocation_id, phase, key, hook, duration_ms, error_message, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?)`
	if s.dialect == "postgres" {
		query = `INSERT INTO run_logs(invocation_id, phase, key, hook, duration_ms, error_message, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)`
	}

	_, err := s.db.ExecContext(ctx, query,
		entry.InvocationID,
		entry.Phase,
		entry.Key,
		entry.Hook,
		entry.DurationMS,
		entry.ErrorMessage,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 means 100.
func (s *SQLStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT invocation_id, phase, key, hook, duration_ms, error_message, created_at
	FROM run_logs ORDER BY created_at DESC, id DESC LIMIT ?`
	if s.dialect == "postgres" {
		query = `SELECT invocation_id, phase, key, hook, duration_ms, error_message, created_at
		FROM run_logs ORDER BY created_at DESC, id DESC LIMIT $1`
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list run log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.InvocationID, &e.Phase, &e.Key, &e.Hook, &e.DurationMS, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run log rows: %w", err)
	}
	return entries, nil
}

func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
