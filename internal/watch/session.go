package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Session is the watch loop: change events and periodic resyncs are
// handled strictly one after another on the goroutine calling Run.
type Session struct {
	watcher    *Watcher
	dispatcher *Dispatcher
	resync     func(context.Context) error
	interval   time.Duration
	requests   chan struct{}
}

// NewSession creates a watch loop. resync runs a full rebuild; with a
// positive interval it is scheduled periodically.
func NewSession(w *Watcher, d *Dispatcher, resync func(context.Context) error, interval time.Duration) *Session {
	return &Session{
		watcher:    w,
		dispatcher: d,
		resync:     resync,
		interval:   interval,
		requests:   make(chan struct{}, 1),
	}
}

// RequestResync queues a full rebuild. Requests made while one is already
// queued are merged.
func (s *Session) RequestResync() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Run handles events until ctx is done or an action fails fatally. An
// interrupt does not cancel the action in flight; the loop stops after it.
func (s *Session) Run(ctx context.Context) error {
	if s.interval > 0 && s.resync != nil {
		sched, err := s.schedule()
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				slog.Warn("Stopping resync scheduler failed", logfields.Error(err))
			}
		}()
	}

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go s.watcher.Run(watchCtx)

	actionCtx := context.WithoutCancel(ctx)
	slog.Info("Watching for changes", logfields.Path(s.watcher.root))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-s.watcher.Events():
			if !ok {
				return nil
			}
			if err := s.check(s.dispatcher.Handle(actionCtx, ev), ev.Path); err != nil {
				return err
			}
		case <-s.requests:
			if s.resync == nil {
				continue
			}
			slog.Info("Periodic resync")
			// resync gets ctx so a full rebuild can stop between its batches
			if err := s.check(s.resync(ctx), ""); err != nil {
				return err
			}
		}
	}
}

// check ends the session on fatal errors and logs everything else.
func (s *Session) check(err error, path string) error {
	if err == nil {
		return nil
	}
	if ferrors.IsFatal(err) {
		return err
	}
	slog.Error("Incremental rebuild failed", logfields.Path(path), logfields.Error(err))
	return nil
}

func (s *Session) schedule() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.RequestResync),
		gocron.WithName("resync"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to create resync job: %w", err)
	}
	sched.Start()
	slog.Info("Scheduled periodic resync", slog.Duration("interval", s.interval))
	return sched, nil
}
