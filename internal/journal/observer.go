package journal

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/pool"
)

// BatchObserver writes every finished batch of one run to a Store. Journal
// failures are logged and never fail the build.
type BatchObserver struct {
	store Store
	runID string
}

// NewBatchObserver returns a pool.Observer recording into store under runID.
func NewBatchObserver(store Store, runID string) *BatchObserver {
	return &BatchObserver{store: store, runID: runID}
}

// BatchFinished implements pool.Observer.
func (o *BatchObserver) BatchFinished(ctx context.Context, outcome pool.Outcome) {
	if err := o.store.RecordBatch(ctx, BatchFromOutcome(o.runID, outcome)); err != nil {
		slog.Warn("Failed to journal batch", logfields.RunID(o.runID), logfields.Batch(outcome.Title), logfields.Error(err))
	}
}

// BatchFromOutcome converts a pool outcome into a journal record.
func BatchFromOutcome(runID string, o pool.Outcome) Batch {
	failed, warned := o.Counts()
	b := Batch{
		RunID:    runID,
		Title:    o.Title,
		Tasks:    len(o.Tasks),
		Failed:   failed,
		Warned:   warned,
		Workers:  o.Workers,
		Duration: o.Duration,
		Status:   string(o.Status()),
	}
	for i, r := range o.Results {
		if r.OK() {
			continue
		}
		b.Issues = append(b.Issues, Issue{Path: o.Tasks[i].Path, Errors: r.Errors, Warnings: r.Warnings})
	}
	return b
}
