package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// Watcher turns fsnotify notifications below a root into ChangeEvents for
// files matching the patterns.
type Watcher struct {
	root     string
	patterns []string
	fsw      *fsnotify.Watcher
	events   chan ChangeEvent
}

// NewWatcher registers root and every directory below it.
func NewWatcher(root string, patterns []string) (*Watcher, error) {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return nil, ferrors.WatchError("source root is not a directory").WithContext("root", root).Build()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryWatch, "failed to create file watcher").Fatal().Build()
	}
	w := &Watcher{root: root, patterns: patterns, fsw: fsw, events: make(chan ChangeEvent, 64)}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryWatch, "failed to watch source tree").
			Fatal().WithContext("root", root).Build()
	}
	return w, nil
}

// Events delivers filtered change events while Run is active.
func (w *Watcher) Events() <-chan ChangeEvent { return w.events }

// Run forwards notifications until ctx is done, then closes the watcher
// and the Events channel.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	defer func() { _ = w.fsw.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			change, ok := w.translate(ev)
			if !ok {
				continue
			}
			select {
			case w.events <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) translate(ev fsnotify.Event) (ChangeEvent, bool) {
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
			return ChangeEvent{}, false
		}
	}
	if !w.Matches(ev.Name) {
		return ChangeEvent{}, false
	}
	kind, ok := kindOf(ev.Op)
	if !ok {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Path: ev.Name, Kind: kind}, true
}

// Matches reports whether the base name of path matches a watch pattern.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, p := range w.patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func kindOf(op fsnotify.Op) (EventKind, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated, true
	case op.Has(fsnotify.Write):
		return EventModified, true
	case op.Has(fsnotify.Remove):
		return EventDeleted, true
	case op.Has(fsnotify.Rename):
		return EventMoved, true
	default:
		return "", false
	}
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
