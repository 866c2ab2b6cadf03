package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/pool"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, store.StartRun(ctx, Run{ID: "run-1", Trigger: "build", StartedAt: base}))
	require.NoError(t, store.StartRun(ctx, Run{ID: "run-2", Trigger: "watch", StartedAt: base.Add(time.Minute)}))
	require.NoError(t, store.FinishRun(ctx, "run-1", "success", ""))
	require.NoError(t, store.FinishRun(ctx, "run-2", "fatal", "spine exited with status 3"))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "fatal", runs[0].Status)
	assert.Equal(t, "spine exited with status 3", runs[0].Error)
	assert.False(t, runs[0].FinishedAt.IsZero())
	assert.Equal(t, "build", runs[1].Trigger)

	runs, err = store.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestFinishUnknownRun(t *testing.T) {
	store := newStore(t)
	err := store.FinishRun(t.Context(), "missing", "success", "")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestBatchObserver(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	require.NoError(t, store.StartRun(ctx, Run{ID: "run-1", Trigger: "build"}))

	outcome := pool.Outcome{
		Title:    "Scripts",
		Tasks:    jobs.Tasks(jobs.KindScriptCompile, []string{"a.lua", "b.lua", "c.lua"}),
		Results:  []jobs.Result{{}, {Errors: []string{"bad"}}, {Warnings: []string{"meh"}}},
		Workers:  2,
		Duration: 1500 * time.Millisecond,
	}
	NewBatchObserver(store, "run-1").BatchFinished(ctx, outcome)

	batches, err := store.Batches(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	b := batches[0]
	assert.Equal(t, "Scripts", b.Title)
	assert.Equal(t, 3, b.Tasks)
	assert.Equal(t, 1, b.Failed)
	assert.Equal(t, 1, b.Warned)
	assert.Equal(t, "failed", b.Status)
	assert.Equal(t, 1500*time.Millisecond, b.Duration)
	assert.Equal(t, []Issue{
		{Path: "b.lua", Errors: []string{"bad"}},
		{Path: "c.lua", Warnings: []string{"meh"}},
	}, b.Issues)
}

func TestBatchFromOutcome_Fatal(t *testing.T) {
	o := pool.Outcome{Title: "Skeletons", Err: &ferrors.FatalExitError{Tool: "spine", Code: 2}}
	assert.Equal(t, "fatal", BatchFromOutcome("r", o).Status)

	o.Err = errors.New("interrupted")
	assert.Equal(t, "canceled", BatchFromOutcome("r", o).Status)
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".assetbuilder", "journal.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)
}
