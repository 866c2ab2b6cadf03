// Package fsguard toggles write permission on generated files so they are not
// edited by hand. It is an accidental-edit guard, not a security boundary:
// every permission change is best effort and never fails the caller.
package fsguard

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	modeWritable fs.FileMode = 0o644
	modeReadOnly fs.FileMode = 0o444
)

// Guard applies the read-only policy of the current platform.
type Guard struct {
	enabled bool
}

// New returns a Guard; a disabled guard never touches permissions.
func New(enabled bool) Guard {
	return Guard{enabled: enabled}
}

// Enabled reports whether permissions are toggled.
func (g Guard) Enabled() bool { return g.enabled }

// Unlock makes path writable if it exists.
func (g Guard) Unlock(path string) {
	if !g.enabled {
		return
	}
	_ = os.Chmod(path, modeWritable)
}

// Lock makes path read-only if it exists.
func (g Guard) Lock(path string) {
	if !g.enabled {
		return
	}
	_ = os.Chmod(path, modeReadOnly)
}

// Write unlocks path, runs fn and locks path again regardless of fn's result.
func (g Guard) Write(path string, fn func() error) error {
	g.Unlock(path)
	defer g.Lock(path)
	return fn()
}

// WriteFile writes data to path inside Write.
func (g Guard) WriteFile(path string, data []byte) error {
	return g.Write(path, func() error {
		return os.WriteFile(path, data, modeWritable)
	})
}

// RemoveAll unlocks every file under dir and removes it. A missing dir is not an error.
func (g Guard) RemoveAll(dir string) error {
	if g.enabled {
		_ = unlockTree(dir)
	}
	err := os.RemoveAll(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func unlockTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			_ = os.Chmod(path, modeWritable)
		}
		return nil
	})
}
