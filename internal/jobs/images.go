package jobs

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RuntimeImageExt is the image format the game loads.
const RuntimeImageExt = ".webp"

var (
	rasterExts    = []string{".png", ".jpg"}
	manifestExts  = []string{".atlas", ".json"}
	rasterRewrite = [][2][]byte{
		{[]byte(".png"), []byte(RuntimeImageExt)},
		{[]byte(".jpg"), []byte(RuntimeImageExt)},
	}
)

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// RuntimeImagePath maps a raster path to its converted path.
func RuntimeImagePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + RuntimeImageExt
}

// ConvertImage converts one raster to the runtime format next to it.
func (r *Runner) ConvertImage(ctx context.Context, path string) Result {
	var res Result
	dst := RuntimeImagePath(path)
	err := r.guard.Write(dst, func() error {
		out, err := r.exec.Run(ctx, r.platform.ImageConverter, path, dst)
		if err != nil {
			return err
		}
		if out.ExitCode != 0 {
			return fmt.Errorf("exit status %d: %s", out.ExitCode, strings.TrimSpace(string(out.Output)))
		}
		return nil
	})
	if err != nil {
		res.addError(fmt.Sprintf("converting %s failed: %v", path, err))
	}
	return res
}

// FindRasters lists every .png/.jpg below root in lexical order.
func FindRasters(root string) ([]string, error) {
	return findFiles(root, rasterExts)
}

// RemoveRasters deletes the given rasters. Missing files are ignored.
func (r *Runner) RemoveRasters(paths []string) error {
	var errs []error
	for _, p := range paths {
		r.guard.Unlock(p)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}

// RewriteImageRefs replaces raster extensions with the runtime extension in
// every atlas and JSON document below root. It returns the rewritten files.
func (r *Runner) RewriteImageRefs(root string) ([]string, error) {
	files, err := findFiles(root, manifestExts)
	if err != nil {
		return nil, err
	}
	var rewritten []string
	var errs []error
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		updated := data
		for _, pair := range rasterRewrite {
			updated = bytes.ReplaceAll(updated, pair[0], pair[1])
		}
		if bytes.Equal(updated, data) {
			continue
		}
		if err := r.guard.WriteFile(f, updated); err != nil {
			errs = append(errs, err)
			continue
		}
		rewritten = append(rewritten, f)
	}
	return rewritten, joinErrors(errs)
}

func findFiles(root string, exts []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && hasExt(path, exts) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
