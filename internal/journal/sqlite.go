package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates) the journal at dbPath.
// Use ":memory:" for an in-memory journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryJournal, ErrDatabaseOpenFailed.Message()).
				WithContext("path", dbPath).Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrDatabaseOpenFailed.Message()).
			WithContext("path", dbPath).Build()
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrInitializeSchemaFailed.Message()).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		trigger_kind TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		status TEXT NOT NULL,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		title TEXT NOT NULL,
		tasks INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		warned INTEGER NOT NULL,
		workers INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		status TEXT NOT NULL,
		issues BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_batches_run ON batches(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StartRun records a run in status "running".
func (s *SQLiteStore) StartRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = "running"
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, trigger_kind, started_at, status) VALUES (?, ?, ?, ?)",
		run.ID, run.Trigger, run.StartedAt.UnixMilli(), run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun sets the final status of a run.
func (s *SQLiteStore) FinishRun(ctx context.Context, id, status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?",
		time.Now().UnixMilli(), status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound.WithContext("run_id", id)
	}
	return nil
}

// RecordBatch appends a finished batch to its run.
func (s *SQLiteStore) RecordBatch(ctx context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issues []byte
	if len(b.Issues) > 0 {
		var err error
		issues, err = json.Marshal(b.Issues)
		if err != nil {
			return fmt.Errorf("marshal issues: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (run_id, title, tasks, failed, warned, workers, duration_ms, status, issues)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Title, b.Tasks, b.Failed, b.Warned, b.Workers, b.Duration.Milliseconds(), b.Status, issues,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trigger_kind, started_at, finished_at, status, error FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var finished sql.NullInt64
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Trigger, &started, &finished, &r.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			r.FinishedAt = time.UnixMilli(finished.Int64)
		}
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Batches returns the batches of a run in the order they finished.
func (s *SQLiteStore) Batches(ctx context.Context, runID string) ([]Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, title, tasks, failed, warned, workers, duration_ms, status, issues
		 FROM batches WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var durationMS int64
		var issues []byte
		if err := rows.Scan(&b.RunID, &b.Title, &b.Tasks, &b.Failed, &b.Warned, &b.Workers, &durationMS, &b.Status, &issues); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Duration = time.Duration(durationMS) * time.Millisecond
		if len(issues) > 0 {
			if err := json.Unmarshal(issues, &b.Issues); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return batches, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
