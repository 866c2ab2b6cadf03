// Package jobs implements the export and copy jobs of the asset pipeline.
//
// Job functions never write to the terminal: everything they have to say is
// returned in a Result (or, for the one fatal case, an error) so that a live
// progress line can own the screen while jobs run.
package jobs

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/fsguard"
)

// Runner executes jobs against one project layout with one set of tools.
type Runner struct {
	platform config.Platform
	layout   config.Layout
	guard    fsguard.Guard
	exec     Executor
}

// NewRunner creates a Runner. A nil executor uses os/exec.
func NewRunner(platform config.Platform, layout config.Layout, exec Executor) *Runner {
	if exec == nil {
		exec = ExecExecutor{}
	}
	return &Runner{
		platform: platform,
		layout:   layout,
		guard:    fsguard.New(platform.ReadOnlyOutputs),
		exec:     exec,
	}
}

// Layout returns the layout the runner writes into.
func (r *Runner) Layout() config.Layout { return r.layout }

// Platform returns the tool configuration.
func (r *Runner) Platform() config.Platform { return r.platform }

// Guard returns the read-only guard used for generated files.
func (r *Runner) Guard() fsguard.Guard { return r.guard }

// Run executes one task. Only a skeleton export can return a non-nil error.
func (r *Runner) Run(ctx context.Context, task Task) (Result, error) {
	switch task.Kind {
	case KindSkeletonExport:
		return r.ExportSkeleton(ctx, task.Path)
	case KindScriptCompile:
		return r.CompileScript(ctx, task.Path), nil
	case KindLipSyncExport:
		return r.ExportLipSync(ctx, task.Path), nil
	case KindImageConvert:
		return r.ConvertImage(ctx, task.Path), nil
	default:
		return Result{Errors: []string{fmt.Sprintf("unknown task kind %q for %s", task.Kind, task.Path)}}, nil
	}
}
