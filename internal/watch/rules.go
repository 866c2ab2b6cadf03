package watch

import (
	"context"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/lipsync"
)

// Actions are the incremental rebuild steps a rule can take.
type Actions interface {
	ExportSkeleton(ctx context.Context, path string) error
	ConvertImages(ctx context.Context) error
	CompileScript(ctx context.Context, path string) error
	CopyInto(ctx context.Context, path, category string) error
}

// Rule maps matching paths to one incremental action.
type Rule struct {
	Name  string
	Match func(path string) bool
	Apply func(ctx context.Context, path string) error
}

const dataExt = ".json"

// Rules returns the routing table in evaluation order. Suffix and folder
// keep the rules apart except for nested category folders, where the first
// rule wins.
func Rules(a Actions) []Rule {
	return []Rule{
		{
			Name:  "skeleton",
			Match: hasExt(jobs.SkeletonExt),
			Apply: func(ctx context.Context, path string) error {
				if err := a.ExportSkeleton(ctx, path); err != nil {
					return err
				}
				return a.ConvertImages(ctx)
			},
		},
		{
			Name:  "script",
			Match: hasExt(jobs.ScriptExt),
			Apply: a.CompileScript,
		},
		copyRule(a, dataExt, config.CategoryScenes),
		copyRule(a, dataExt, config.CategoryConfig),
		copyRule(a, lipsync.DialogExt, config.CategoryDialog),
	}
}

func copyRule(a Actions, ext, category string) Rule {
	return Rule{
		Name: category,
		Match: func(path string) bool {
			return filepath.Ext(path) == ext && inFolder(path, category)
		},
		Apply: func(ctx context.Context, path string) error {
			return a.CopyInto(ctx, path, category)
		},
	}
}

func hasExt(ext string) func(string) bool {
	return func(path string) bool { return filepath.Ext(path) == ext }
}

// inFolder reports whether one of path's directories is named folder.
func inFolder(path, folder string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if part == folder {
			return true
		}
	}
	return false
}
