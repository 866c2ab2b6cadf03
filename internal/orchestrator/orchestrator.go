// Package orchestrator runs the fixed sequence of batches of a full build.
package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/journal"
	"git.home.luguber.info/inful/assetbuilder/internal/lipsync"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
	"git.home.luguber.info/inful/assetbuilder/internal/pool"
)

// Trigger names why a run started.
type Trigger string

const (
	TriggerBuild  Trigger = "build"
	TriggerResync Trigger = "resync"
	TriggerImages Trigger = "images"
)

// ErrInterrupted is returned when the caller's context ends between two
// steps. The batch that was running when it ended has completed.
var ErrInterrupted = errors.New("build interrupted")

// Batch titles as shown on the progress line.
const (
	TitleSkeletons = " Re-Exporting Spine Files"
	TitleScripts   = " Compiling Scripts"
	TitleLipSync   = " Re-Exporting Rhubarb Files"
	TitleImages    = " Converting Images"
)

// Orchestrator owns the runner and the pool for one project.
type Orchestrator struct {
	cfg      *config.Config
	runner   *jobs.Runner
	pool     pool.Dispatcher
	splicer  *lipsync.Splicer
	resolver lipsync.Resolver
	journal  journal.Store
	out      io.Writer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExecutor replaces the subprocess executor.
func WithExecutor(e jobs.Executor) Option {
	return func(o *Orchestrator) { o.runner = jobs.NewRunner(o.cfg.Platform(), o.cfg.Layout, e) }
}

// WithOutput sets where progress lines and reports are written.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) { o.pool.Recorder = r }
}

// WithJournal records every run and batch into s.
func WithJournal(s journal.Store) Option {
	return func(o *Orchestrator) { o.journal = s }
}

// New creates an Orchestrator for cfg.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		runner:   jobs.NewRunner(cfg.Platform(), cfg.Layout, nil),
		resolver: lipsync.NewResolver(cfg.LipSync),
		out:      os.Stdout,
	}
	o.pool = pool.Dispatcher{Workers: cfg.Workers, Recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(o)
	}
	o.pool.Out = o.out
	o.splicer = lipsync.NewSplicer(cfg.Layout, o.runner.Guard())
	return o
}

// Runner returns the job runner used by the orchestrator.
func (o *Orchestrator) Runner() *jobs.Runner { return o.runner }

// Output returns the writer reports go to.
func (o *Orchestrator) Output() io.Writer { return o.out }

// run is the state of one journaled run.
type run struct {
	id     string
	logger *slog.Logger
	pool   *pool.Dispatcher
	status metrics.OutcomeLabel
}

func (r *run) batch(ctx context.Context, title string, tasks []jobs.Task, fn pool.JobFunc) (pool.Outcome, error) {
	outcome, err := r.pool.RunBatch(ctx, title, tasks, fn)
	r.worsen(outcome.Status())
	return outcome, err
}

func (r *run) worsen(s metrics.OutcomeLabel) {
	rank := map[metrics.OutcomeLabel]int{
		metrics.OutcomeSuccess:  0,
		metrics.OutcomeWarning:  1,
		metrics.OutcomeFailed:   2,
		metrics.OutcomeCanceled: 3,
		metrics.OutcomeFatal:    4,
	}
	if rank[s] > rank[r.status] {
		r.status = s
	}
}

// track wraps fn in a run with its own id, journal entry and log context.
func (o *Orchestrator) track(ctx context.Context, trigger Trigger, fn func(context.Context, *run) error) error {
	r := &run{id: uuid.NewString(), status: metrics.OutcomeSuccess}
	r.logger = slog.With(logfields.RunID(r.id))
	d := o.pool
	r.pool = &d
	if o.journal != nil {
		d.Observer = journal.NewBatchObserver(o.journal, r.id)
		if err := o.journal.StartRun(ctx, journal.Run{ID: r.id, Trigger: string(trigger)}); err != nil {
			r.logger.Warn("Failed to journal run start", logfields.Error(err))
		}
	}

	start := time.Now()
	r.logger.Info("Run started", slog.String("trigger", string(trigger)))
	err := fn(ctx, r)
	switch {
	case ferrors.IsFatal(err):
		r.worsen(metrics.OutcomeFatal)
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		r.worsen(metrics.OutcomeCanceled)
	case err != nil:
		r.worsen(metrics.OutcomeFailed)
	}
	duration := time.Since(start)

	if o.journal != nil {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		if jerr := o.journal.FinishRun(context.WithoutCancel(ctx), r.id, string(r.status), msg); jerr != nil {
			r.logger.Warn("Failed to journal run end", logfields.Error(jerr))
		}
	}
	r.logger.Info("Run finished",
		slog.String("status", string(r.status)),
		logfields.DurationMS(float64(duration.Milliseconds())))
	return err
}

// Run performs a full build: skeletons, scripts, static categories,
// lip-sync and the image pass, in that order. Batch failures are reported
// and the next batch runs; only a fatal error stops the run. When ctx ends,
// the running step finishes and Run returns ErrInterrupted.
func (o *Orchestrator) Run(ctx context.Context) error {
	return o.RunTriggered(ctx, TriggerBuild)
}

// RunTriggered is Run with an explicit trigger for the journal.
func (o *Orchestrator) RunTriggered(ctx context.Context, trigger Trigger) error {
	return o.track(ctx, trigger, func(ctx context.Context, r *run) error {
		steps := []func(context.Context, *run) error{
			o.exportSkeletons,
			o.compileScripts,
			o.copyStatic,
			o.exportLipSync,
			o.convertImages,
		}
		// Steps never see the interrupt; it is only checked between them.
		work := context.WithoutCancel(ctx)
		for _, step := range steps {
			if ctx.Err() != nil {
				r.logger.Info("Interrupted, skipping remaining steps")
				return ErrInterrupted
			}
			if err := step(work, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// ConvertImages runs the image pass on its own. It always runs to completion.
func (o *Orchestrator) ConvertImages(ctx context.Context) error {
	return o.track(ctx, TriggerImages, func(ctx context.Context, r *run) error {
		return o.convertImages(context.WithoutCancel(ctx), r)
	})
}

func (o *Orchestrator) runTask(ctx context.Context, task jobs.Task) (jobs.Result, error) {
	return o.runner.Run(ctx, task)
}

func (o *Orchestrator) exportSkeletons(ctx context.Context, r *run) error {
	files, err := jobs.FindSkeletons(o.cfg.Layout.SourceRoot)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to list skeleton projects").Build()
	}
	_, err = r.batch(ctx, TitleSkeletons, jobs.Tasks(jobs.KindSkeletonExport, files), o.runTask)
	return err
}

func (o *Orchestrator) compileScripts(ctx context.Context, r *run) error {
	files, err := jobs.FindScripts(o.cfg.Layout.SourceDir(config.CategoryScripts))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to list scripts").Build()
	}
	_, err = r.batch(ctx, TitleScripts, jobs.Tasks(jobs.KindScriptCompile, files), o.runTask)
	return err
}

func (o *Orchestrator) copyStatic(_ context.Context, r *run) error {
	l := o.cfg.Layout
	for _, category := range l.StaticCategories {
		n, err := o.runner.CopyTree(l.SourceDir(category), l.OutputDir(category))
		if err != nil {
			r.worsen(metrics.OutcomeFailed)
			r.logger.Error("Copy failed", logfields.Path(l.SourceDir(category)), logfields.Error(err))
			continue
		}
		r.logger.Debug("Copied category", logfields.Path(l.SourceDir(category)), logfields.DestPath(l.OutputDir(category)), slog.Int("files", n))
	}
	return nil
}

func (o *Orchestrator) exportLipSync(ctx context.Context, r *run) error {
	if !o.runner.Platform().LipSyncEnabled() {
		r.logger.Info("No lip-sync tool configured, skipping lip-sync export")
		return nil
	}
	l := o.cfg.Layout
	nodes, skipped, err := lipsync.Discover(l.OutputDir(config.CategoryDialog), l, o.resolver)
	if err != nil {
		r.worsen(metrics.OutcomeFailed)
		r.logger.Error("Reading dialogue failed", logfields.Error(err))
		return nil
	}
	for _, s := range skipped {
		r.logger.Info("Skipping dialogue node", logfields.NodeID(s.ID), logfields.Path(s.Source), slog.String("reason", s.Reason))
	}

	outcome, err := r.batch(ctx, TitleLipSync, jobs.Tasks(jobs.KindLipSyncExport, lipsync.IDs(nodes)), o.runTask)
	if err != nil {
		return err
	}

	// Splices share character documents and run one at a time.
	for i, node := range nodes {
		if outcome.Results[i].Failed() {
			continue
		}
		if err := o.splicer.Apply(node); err != nil {
			r.worsen(metrics.OutcomeFailed)
			pool.PrintIssues(o.out, l.CharacterDocument(node.Character), jobs.Result{Errors: []string{err.Error()}})
			r.logger.Warn("Lip-sync splice failed", logfields.NodeID(node.ID), logfields.Character(node.Character), logfields.Error(err))
		}
	}
	return nil
}

func (o *Orchestrator) convertImages(ctx context.Context, r *run) error {
	root := o.cfg.Layout.OutputRoot
	rasters, err := jobs.FindRasters(root)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to list images").Build()
	}
	outcome, err := r.batch(ctx, TitleImages, jobs.Tasks(jobs.KindImageConvert, rasters), o.runTask)
	if err != nil {
		return err
	}

	var converted []string
	for _, t := range outcome.Succeeded() {
		converted = append(converted, t.Path)
	}
	if err := o.runner.RemoveRasters(converted); err != nil {
		r.logger.Warn("Removing converted images failed", logfields.Error(err))
	}
	rewritten, err := o.runner.RewriteImageRefs(root)
	if err != nil {
		r.worsen(metrics.OutcomeFailed)
		r.logger.Error("Rewriting image references failed", logfields.Error(err))
	}
	r.logger.Debug("Image pass done", slog.Int("converted", len(converted)), slog.Int("rewritten", len(rewritten)))
	return nil
}
