package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
	"git.home.luguber.info/inful/assetbuilder/internal/orchestrator"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Workers int `short:"j" help:"Worker count per batch (0 = one per CPU)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Workers > 0 {
		cfg.Workers = b.Workers
	}

	ctx, stop := signalContext()
	defer stop()

	store := openJournal(cfg)
	defer closeJournal(store)

	slog.Info("Starting asset build",
		logfields.Path(cfg.Layout.SourceRoot),
		logfields.DestPath(cfg.Layout.OutputRoot),
		logfields.Workers(cfg.Workers))

	o := orchestrator.New(cfg,
		orchestrator.WithOutput(g.out()),
		orchestrator.WithJournal(store),
	)
	return runBuild(ctx, g.out(), o)
}

// runBuild runs a full build. An interrupt between batches ends it cleanly.
func runBuild(ctx context.Context, out io.Writer, o *orchestrator.Orchestrator) error {
	err := o.Run(ctx)
	switch {
	case errors.Is(err, orchestrator.ErrInterrupted):
		_, _ = fmt.Fprintln(out, "Build interrupted")
		return nil
	case err != nil:
		return err
	}
	_, _ = fmt.Fprintln(out, "Convert success")
	return nil
}
