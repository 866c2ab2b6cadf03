package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

const (
	SkeletonExt = ".spine"

	// navmeshAttachment marks the walkable area; it has no behaviour script.
	navmeshAttachment = "walkable_area"
	// dialogPrefix marks bounding boxes that start a dialogue instead of a script.
	dialogPrefix = "dlg:"
)

// SkeletonName derives the project name from a .spine path.
func SkeletonName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ExportSkeleton re-exports one skeletal project into data/<name>/.
//
// A non-zero exporter exit returns a *errors.FatalExitError and must stop
// the whole run. An exporter that cannot be started, and every content
// problem, is reported in the Result instead.
func (r *Runner) ExportSkeleton(ctx context.Context, path string) (Result, error) {
	var res Result
	if filepath.Ext(path) != SkeletonExt {
		res.addError("invalid spine file " + path)
		return res, nil
	}

	tool := r.platform.SpineTool
	if !r.exec.Available(tool) {
		res.addError(fmt.Sprintf("spine executable '%s' could not be found!", tool))
		return res, nil
	}

	name := SkeletonName(path)
	outDir := r.layout.SkeletonDir(name)
	doc := r.layout.SkeletonDocument(name)
	atlas := r.layout.SkeletonAtlas(name)

	// Stale output from a previous export must not survive a rename inside the project.
	_ = r.guard.RemoveAll(outDir)

	out, err := r.exec.Run(ctx, tool,
		"-i", path,
		"-m",
		"-o", outDir+string(filepath.Separator),
		"-e", r.layout.ExportTemplate,
	)
	if err != nil {
		res.addError(fmt.Sprintf("spine executable '%s' could not run: %v", tool, err))
		return res, nil
	}
	if out.ExitCode != 0 {
		return res, &ferrors.FatalExitError{Tool: tool, Code: out.ExitCode, Output: string(out.Output)}
	}

	data, err := os.ReadFile(doc)
	if errors.Is(err, fs.ErrNotExist) {
		res.addError(fmt.Sprintf("Spine export of %s failed. No file %s was created.\nIs the skeleton of %s%s named %s?",
			name, doc, name, SkeletonExt, name))
		return res, nil
	}
	if err != nil {
		res.addError(fmt.Sprintf("could not read %s: %v", doc, err))
		return res, nil
	}
	if !gjson.ValidBytes(data) {
		res.addError(fmt.Sprintf("exported skeleton %s is not valid JSON", doc))
		return res, nil
	}

	for _, bbox := range BoundingBoxNames(data) {
		created, err := r.ensureScript(bbox)
		if err != nil {
			res.addError(fmt.Sprintf("could not create script %s.lua: %v", bbox, err))
			continue
		}
		if created {
			res.addWarning(fmt.Sprintf("Script %s.lua was created automatically!", bbox))
		}
	}

	r.guard.Lock(doc)
	r.guard.Lock(atlas)
	return res, nil
}

// BoundingBoxNames returns, in document order and without duplicates, the
// script names of every bounding-box attachment that needs a behaviour
// script. Both the array skin layout and the older object layout are read.
func BoundingBoxNames(skeleton []byte) []string {
	skins := gjson.GetBytes(skeleton, "skins")
	if !skins.Exists() {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	collect := func(attachments gjson.Result) {
		attachments.ForEach(func(_, slot gjson.Result) bool {
			slot.ForEach(func(key, attachment gjson.Result) bool {
				if attachment.Get("type").String() != "boundingbox" {
					return true
				}
				name := key.String()
				if n := attachment.Get("name"); n.Exists() {
					name = n.String()
				}
				if !needsScript(name) || seen[name] {
					return true
				}
				seen[name] = true
				names = append(names, name)
				return true
			})
			return true
		})
	}

	skins.ForEach(func(_, skin gjson.Result) bool {
		if skins.IsArray() {
			collect(skin.Get("attachments"))
		} else {
			collect(skin)
		}
		return true
	})
	return names
}

func needsScript(name string) bool {
	return name != "" && name != navmeshAttachment && !strings.HasPrefix(name, dialogPrefix)
}

// PlaceholderScript is the body written for a missing bounding-box script.
func PlaceholderScript(name string) string {
	return fmt.Sprintf("print(%q)", name)
}

// ensureScript creates data-src/scripts/<name>.lua if it is missing and
// reports whether it did.
func (r *Runner) ensureScript(name string) (bool, error) {
	path := r.layout.ScriptSource(name)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(PlaceholderScript(name)), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
