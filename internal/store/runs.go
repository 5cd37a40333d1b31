package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SaveRun inserts a run and its records in one transaction and returns
// the new run id. run.CreatedAt defaults to now when zero.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, records []*Record) (int64, error) {
	if run == nil {
		return 0, fmt.Errorf("nil run")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (input_name, record_count, group_count, created_at) VALUES (?, ?, ?, ?)`,
		run.InputName, run.RecordCount, run.GroupCount, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, group_name, fields_json, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		fields, err := json.Marshal(rec.Fields)
		if err != nil {
			return 0, fmt.Errorf("encoding record %d: %w", i, err)
		}
		position := rec.Position
		if position == 0 {
			position = i + 1
		}
		if _, err := stmt.ExecContext(ctx, runID, rec.GroupName, string(fields), position); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// GetRun fetches a single run by id. Returns nil when not found.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_name, record_count, group_count, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_name, record_count, group_count, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRecords returns a run's records in extraction order.
func (s *SQLiteStore) RunRecords(ctx context.Context, runID int64) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, group_name, fields_json, position
		 FROM records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var fields string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.GroupName, &fields, &rec.Position); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", rec.ID, err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Stats aggregates history counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var lastRun sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(record_count), 0), MAX(created_at) FROM runs`,
	).Scan(&stats.RunCount, &stats.RecordCount, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("reading run stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT group_name) FROM records`,
	).Scan(&stats.GroupCount)
	if err != nil {
		return nil, fmt.Errorf("reading group stats: %w", err)
	}

	if lastRun.Valid {
		t, err := time.Parse(time.RFC3339, lastRun.String)
		if err == nil {
			stats.LastRunAt = t
		}
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(&run.ID, &run.InputName, &run.RecordCount, &run.GroupCount, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run %d timestamp: %w", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}
