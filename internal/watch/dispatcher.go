package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
)

// Dispatcher handles one change event at a time.
type Dispatcher struct {
	rules    []Rule
	settler  Settler
	recorder metrics.Recorder
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSettler replaces the default write-completion wait.
func WithSettler(s Settler) DispatcherOption {
	return func(d *Dispatcher) { d.settler = s }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) DispatcherOption {
	return func(d *Dispatcher) { d.recorder = metrics.OrNoop(r) }
}

// NewDispatcher creates a Dispatcher over the rule table for actions.
func NewDispatcher(actions Actions, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		rules:    Rules(actions),
		settler:  Settler{Delay: DefaultSettleDelay},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Route returns the rule for path.
func (d *Dispatcher) Route(path string) (Rule, bool) {
	for _, r := range d.rules {
		if r.Match(path) {
			return r, true
		}
	}
	return Rule{}, false
}

// Handle processes one event. Creations, deletions and moves are only
// logged; a modification waits for the writer to finish and runs the
// matching rule. The returned error is the action's error.
func (d *Dispatcher) Handle(ctx context.Context, ev ChangeEvent) error {
	d.recorder.IncWatchEvent(string(ev.Kind))
	switch ev.Kind {
	case EventCreated:
		slog.Info("File created", logfields.Path(ev.Path))
		return nil
	case EventDeleted:
		if filepath.Ext(ev.Path) == ".png" {
			return nil
		}
		slog.Warn("File deleted", logfields.Path(ev.Path))
		return nil
	case EventMoved:
		slog.Info("File moved", logfields.Path(ev.Path), logfields.DestPath(ev.DestPath))
		return nil
	case EventModified:
	default:
		slog.Debug("Ignoring event", logfields.Event(string(ev.Kind)), logfields.Path(ev.Path))
		return nil
	}

	if err := d.settler.Wait(ctx, ev.Path); err != nil {
		return err
	}
	slog.Info("Source file modified", logfields.Path(ev.Path))

	rule, ok := d.Route(ev.Path)
	if !ok {
		slog.Debug("No rule for modified file", logfields.Path(ev.Path))
		return nil
	}
	d.recorder.IncRuleMatch(rule.Name)
	slog.Debug("Applying rule", logfields.Rule(rule.Name), logfields.Path(ev.Path))
	return rule.Apply(ctx, ev.Path)
}
