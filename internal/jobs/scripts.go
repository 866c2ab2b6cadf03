package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
)

const ScriptExt = ".lua"

// ScriptOutput is the runtime location of a script: scripts are addressed
// by name at runtime, so the output folder is flat.
func (r *Runner) ScriptOutput(path string) string {
	return filepath.Join(r.layout.OutputDir(config.CategoryScripts), filepath.Base(path))
}

// CompileScript syntax-checks a Lua script and copies it into the runtime
// tree. A failing check is only a warning: the previous content may still be
// valid and must keep deploying.
func (r *Runner) CompileScript(ctx context.Context, path string) Result {
	var res Result
	if filepath.Ext(path) != ScriptExt {
		res.addError("invalid script file " + path)
		return res
	}

	out, err := r.exec.Run(ctx, r.platform.LuaCompiler, "-p", path)
	switch {
	case err != nil:
		res.addWarning(fmt.Sprintf("lua compiler '%s' could not run: %v", r.platform.LuaCompiler, err))
	case out.ExitCode != 0:
		res.addWarning(strings.TrimSpace(string(out.Output)))
	}

	if err := r.CopyFile(path, r.ScriptOutput(path)); err != nil {
		res.addError(fmt.Sprintf("could not copy %s: %v", path, err))
	}
	return res
}
