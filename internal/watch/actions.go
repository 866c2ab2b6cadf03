package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/pool"
)

// ImageConverter runs the image pass over the whole output tree.
type ImageConverter interface {
	ConvertImages(ctx context.Context) error
}

// RunnerActions performs incremental actions with a job runner and prints
// their issues the same way a batch report does.
type RunnerActions struct {
	runner *jobs.Runner
	images ImageConverter
	out    io.Writer
}

// NewRunnerActions creates the production Actions.
func NewRunnerActions(runner *jobs.Runner, images ImageConverter, out io.Writer) *RunnerActions {
	return &RunnerActions{runner: runner, images: images, out: out}
}

func (a *RunnerActions) ExportSkeleton(ctx context.Context, path string) error {
	res, err := a.runner.ExportSkeleton(ctx, path)
	if err != nil {
		return err
	}
	pool.PrintIssues(a.out, path, res)
	return nil
}

func (a *RunnerActions) ConvertImages(ctx context.Context) error {
	return a.images.ConvertImages(ctx)
}

func (a *RunnerActions) CompileScript(ctx context.Context, path string) error {
	res := a.runner.CompileScript(ctx, path)
	pool.PrintIssues(a.out, path, res)
	if !res.Failed() {
		slog.Info("Script deployed", logfields.Path(path), logfields.DestPath(a.runner.ScriptOutput(path)))
	}
	return nil
}

// CopyInto copies path into the output folder of category, keeping its
// position below the category's source folder.
func (a *RunnerActions) CopyInto(_ context.Context, path, category string) error {
	dst := CategoryDest(a.runner.Layout().SourceDir(category), a.runner.Layout().OutputDir(category), path)
	if err := a.runner.CopyFile(path, dst); err != nil {
		pool.PrintIssues(a.out, path, jobs.Result{Errors: []string{err.Error()}})
		return nil
	}
	slog.Info("Copied", logfields.Path(path), logfields.DestPath(dst))
	return nil
}

// CategoryDest maps a source file to its place in the output folder. Files
// outside srcDir land directly in dstDir.
func CategoryDest(srcDir, dstDir, path string) string {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(dstDir, filepath.Base(path))
	}
	return filepath.Join(dstDir, rel)
}
