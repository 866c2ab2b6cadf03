package commands

import (
	"context"
	"errors"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
	"git.home.luguber.info/inful/assetbuilder/internal/orchestrator"
	"git.home.luguber.info/inful/assetbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SkipInitial bool   `name:"skip-initial" help:"Do not run a full build before watching"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.address)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	store := openJournal(cfg)
	defer closeJournal(store)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	addr := cfg.Metrics.Address
	if w.MetricsAddr != "" {
		addr = w.MetricsAddr
	}
	if addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		go func() {
			if err := metrics.Serve(ctx, addr, reg); err != nil {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
	}

	o := orchestrator.New(cfg,
		orchestrator.WithOutput(g.out()),
		orchestrator.WithJournal(store),
		orchestrator.WithRecorder(recorder),
	)
	if !w.SkipInitial {
		err := o.Run(ctx)
		if errors.Is(err, orchestrator.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	watcher, err := watch.NewWatcher(cfg.Layout.SourceRoot, cfg.Watch.Patterns)
	if err != nil {
		return err
	}
	dispatcher := watch.NewDispatcher(
		watch.NewRunnerActions(o.Runner(), o, g.out()),
		watch.WithSettler(watch.Settler{Delay: cfg.SettleDelay()}),
		watch.WithRecorder(recorder),
	)
	resync := func(ctx context.Context) error {
		err := o.RunTriggered(ctx, orchestrator.TriggerResync)
		if errors.Is(err, orchestrator.ErrInterrupted) {
			return nil
		}
		return err
	}
	return watch.NewSession(watcher, dispatcher, resync, cfg.ResyncInterval()).Run(ctx)
}
