// Package journal keeps a persistent record of build runs and their batches
// so the history command can show what happened while nobody was watching
// the terminal.
package journal

import (
	"context"
	"time"
)

// Run is one full or incremental build.
type Run struct {
	ID         string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Error      string
}

// Batch is one finished batch of a run.
type Batch struct {
	RunID    string
	Title    string
	Tasks    int
	Failed   int
	Warned   int
	Workers  int
	Duration time.Duration
	Status   string
	Issues   []Issue
}

// Issue is the error and warning list of one task.
type Issue struct {
	Path     string   `json:"path"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Store persists runs and batches.
type Store interface {
	StartRun(ctx context.Context, run Run) error
	FinishRun(ctx context.Context, id, status, errMsg string) error
	RecordBatch(ctx context.Context, batch Batch) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	Batches(ctx context.Context, runID string) ([]Batch, error)
	Close() error
}
