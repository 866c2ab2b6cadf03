package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/journal"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Global is shared state passed to every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives progress lines, reports and command output.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"assetbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Rebuild the whole runtime asset tree"`
	Watch   WatchCmd   `cmd:"" help:"Build, then rebuild incrementally on source changes"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the build journal"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration. The default file may be absent; an
// explicitly named one must exist.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config, c.Config != config.DefaultConfigFile)
}

// openJournal opens the build journal. A journal that cannot be opened is
// logged and the build continues without it.
func openJournal(cfg *config.Config) journal.Store {
	if cfg.Journal.Path == "" {
		return nil
	}
	store, err := journal.NewSQLiteStore(cfg.Journal.Path)
	if err != nil {
		slog.Warn("Build journal unavailable", logfields.Path(cfg.Journal.Path), logfields.Error(err))
		return nil
	}
	return store
}

func closeJournal(store journal.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("Closing build journal failed", logfields.Error(err))
	}
}

// signalContext is canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
