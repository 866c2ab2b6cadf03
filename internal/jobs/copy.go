package jobs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst, creating parent directories. The destination
// is a generated file and is guarded read-only afterwards.
func (r *Runner) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return r.guard.Write(dst, func() error {
		return copyContents(src, dst)
	})
}

// CopyTree mirrors every file below srcDir into dstDir, keeping relative
// paths. A missing srcDir copies nothing.
func (r *Runner) CopyTree(srcDir, dstDir string) (int, error) {
	if _, err := os.Stat(srcDir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	copied := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if err := r.CopyFile(path, filepath.Join(dstDir, rel)); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
