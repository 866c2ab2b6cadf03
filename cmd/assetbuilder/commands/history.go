package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to show" default:"10"`
	RunID string `arg:"" optional:"" name:"run" help:"Show the batches of this run id"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return ferrors.ConfigError("build journal is disabled (journal.path is empty)").Build()
	}
	store, err := journal.NewSQLiteStore(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer closeJournal(store)

	ctx := context.Background()
	if h.RunID != "" {
		batches, err := store.Batches(ctx, h.RunID)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryJournal, "failed to read batches").Build()
		}
		printBatches(g.out(), batches)
		return nil
	}
	runs, err := store.RecentRuns(ctx, h.Limit)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryJournal, "failed to read runs").Build()
	}
	printRuns(g.out(), runs)
	return nil
}

func statusStyle(r *lipgloss.Renderer, status string) lipgloss.Style {
	switch status {
	case "success":
		return r.NewStyle().Foreground(lipgloss.Color("2"))
	case "warning":
		return r.NewStyle().Foreground(lipgloss.Color("3"))
	case "running":
		return r.NewStyle().Foreground(lipgloss.Color("4"))
	default:
		return r.NewStyle().Foreground(lipgloss.Color("1"))
	}
}

func printRuns(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No builds recorded yet")
		return
	}
	r := lipgloss.NewRenderer(w)
	for _, run := range runs {
		took := "-"
		if !run.FinishedAt.IsZero() {
			took = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		line := fmt.Sprintf("%s  %-7s %-9s %8s  %s",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.Trigger, run.Status, took, run.ID)
		_, _ = fmt.Fprintln(w, statusStyle(r, run.Status).Render(line))
		if run.Error != "" {
			_, _ = fmt.Fprintln(w, "    "+run.Error)
		}
	}
}

func printBatches(w io.Writer, batches []journal.Batch) {
	if len(batches) == 0 {
		_, _ = fmt.Fprintln(w, "No batches recorded for this run")
		return
	}
	r := lipgloss.NewRenderer(w)
	for _, b := range batches {
		line := fmt.Sprintf("%-28s %-8s tasks=%d failed=%d warned=%d workers=%d %s",
			b.Title, b.Status, b.Tasks, b.Failed, b.Warned, b.Workers, b.Duration.Round(time.Millisecond))
		_, _ = fmt.Fprintln(w, statusStyle(r, b.Status).Render(line))
		for _, issue := range b.Issues {
			_, _ = fmt.Fprintln(w, "    "+issue.Path)
			for _, e := range issue.Errors {
				_, _ = fmt.Fprintln(w, "      ERROR: "+e)
			}
			for _, warn := range issue.Warnings {
				_, _ = fmt.Fprintln(w, "      WARNING: "+warn)
			}
		}
	}
}
