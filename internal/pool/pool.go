// Package pool fans a batch of jobs out across a bounded set of workers,
// drives the batch's progress line and prints the batch report.
package pool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
	"git.home.luguber.info/inful/assetbuilder/internal/progress"
)

// JobFunc runs one task. A non-nil error stops the whole batch.
type JobFunc func(ctx context.Context, task jobs.Task) (jobs.Result, error)

// Observer is notified once per finished batch.
type Observer interface {
	BatchFinished(ctx context.Context, outcome Outcome)
}

// Dispatcher runs batches. The zero value uses one worker per CPU, writes to
// stdout and records nothing.
type Dispatcher struct {
	// Workers caps the pool size; zero means runtime.NumCPU().
	Workers  int
	Out      io.Writer
	Recorder metrics.Recorder
	Observer Observer
}

type completion struct {
	index    int
	result   jobs.Result
	err      error
	duration time.Duration
}

func (d *Dispatcher) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *Dispatcher) poolSize(tasks int) int {
	n := d.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, tasks))
}

// RunBatch runs every task through fn and returns their results in
// submission order. Progress is advanced in completion order.
//
// When fn returns an error no further tasks are started, in-flight tasks are
// awaited and the first error is returned without printing a report.
func (d *Dispatcher) RunBatch(ctx context.Context, title string, tasks []jobs.Task, fn JobFunc) (Outcome, error) {
	recorder := metrics.OrNoop(d.Recorder)
	start := time.Now()
	outcome := Outcome{
		Title:   title,
		Tasks:   tasks,
		Results: make([]jobs.Result, len(tasks)),
	}

	reporter := progress.New(d.out(), 0, len(tasks))
	reporter.SetTitle(title)

	var batchErr error
	if len(tasks) > 0 {
		outcome.Workers = d.poolSize(len(tasks))
		recorder.SetWorkers(outcome.Workers)
		slog.Debug("Starting batch", logfields.Batch(title), logfields.Tasks(len(tasks)), logfields.Workers(outcome.Workers))
		batchErr = d.dispatch(ctx, tasks, fn, outcome.Workers, func(c completion) {
			outcome.Results[c.index] = c.result
			kind := string(tasks[c.index].Kind)
			recorder.ObserveJobDuration(kind, c.duration)
			if c.err != nil {
				recorder.IncJobResult(kind, metrics.ResultFatal)
				return
			}
			recorder.IncJobResult(kind, resultLabel(c.result))
			for _, e := range c.result.Errors {
				reporter.AddError(e)
			}
			for _, w := range c.result.Warnings {
				reporter.AddWarning(w)
			}
			reporter.Advance(1)
		})
	}

	if err := reporter.Finish(); err != nil {
		slog.Warn("Progress output failed", logfields.Batch(title), logfields.Error(err))
	}
	outcome.Duration = time.Since(start)
	outcome.Err = batchErr

	recorder.ObserveBatchDuration(title, outcome.Duration)
	recorder.IncBatchOutcome(title, outcome.Status())
	if d.Observer != nil {
		d.Observer.BatchFinished(context.WithoutCancel(ctx), outcome)
	}

	if batchErr != nil {
		return outcome, batchErr
	}
	PrintReport(d.out(), outcome)
	return outcome, nil
}

// dispatch runs tasks on n workers and calls onDone from the calling
// goroutine for every finished task, in completion order.
func (d *Dispatcher) dispatch(ctx context.Context, tasks []jobs.Task, fn JobFunc, n int, onDone func(completion)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int, len(tasks))
	for i := range tasks {
		queue <- i
	}
	close(queue)

	done := make(chan completion, len(tasks))
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if ctx.Err() != nil {
					return
				}
				c := runOne(ctx, idx, tasks[idx], fn)
				if c.err != nil {
					cancel()
				}
				done <- c
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	var firstErr error
	for c := range done {
		if c.err != nil && firstErr == nil {
			firstErr = c.err
		}
		onDone(c)
	}
	if firstErr == nil && ctx.Err() != nil {
		// parent context canceled before every task ran
		firstErr = context.Cause(ctx)
	}
	return firstErr
}

// runOne converts a panicking job into an error entry of its result.
func runOne(ctx context.Context, idx int, task jobs.Task, fn JobFunc) (c completion) {
	c.index = idx
	start := time.Now()
	defer func() {
		c.duration = time.Since(start)
		if rec := recover(); rec != nil {
			c.result = jobs.Result{Errors: []string{fmt.Sprintf("panic: %v", rec)}}
			c.err = nil
		}
	}()
	c.result, c.err = fn(ctx, task)
	return c
}

func resultLabel(r jobs.Result) metrics.ResultLabel {
	switch {
	case len(r.Errors) > 0:
		return metrics.ResultError
	case len(r.Warnings) > 0:
		return metrics.ResultWarning
	default:
		return metrics.ResultSuccess
	}
}
