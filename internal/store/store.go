// Package store keeps a SQLite history of extraction runs: one row per
// run plus the extracted records, so past rosters can be listed and
// re-inspected without re-running extraction.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run summarizes one extraction run.
type Run struct {
	ID          int64
	InputName   string
	RecordCount int
	GroupCount  int
	CreatedAt   time.Time
}

// Record is one extracted record within a run. Fields maps output
// column names to values.
type Record struct {
	ID        int64
	RunID     int64
	GroupName string
	Fields    map[string]string
	Position  int
}

// Stats holds aggregate history statistics.
type Stats struct {
	RunCount    int64
	RecordCount int64
	GroupCount  int64
	LastRunAt   time.Time
}

// Store is the run-history interface.
type Store interface {
	SaveRun(ctx context.Context, run *Run, records []*Record) (int64, error)
	GetRun(ctx context.Context, id int64) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunRecords(ctx context.Context, runID int64) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
// Pass ":memory:" for tests.
func NewStore(dbPath string) (Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it does not exist. Idempotent.
func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input_name TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			group_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			group_name TEXT NOT NULL,
			fields_json TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
