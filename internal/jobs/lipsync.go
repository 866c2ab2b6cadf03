package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportLipSync extracts mouth cues for one dialogue node. Without a
// configured tool it does nothing. A failing extraction is an error for this
// node only.
func (r *Runner) ExportLipSync(ctx context.Context, nodeID string) Result {
	var res Result
	if !r.platform.LipSyncEnabled() {
		return res
	}

	out := r.layout.LipSyncOutput(nodeID)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		res.addError(fmt.Sprintf("could not create %s: %v", filepath.Dir(out), err))
		return res
	}

	err := r.guard.Write(out, func() error {
		result, err := r.exec.Run(ctx, r.platform.LipSyncTool,
			r.layout.AudioFile(nodeID),
			"-r", "phonetic",
			"-f", "json",
			"-o", out,
		)
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("exit status %d: %s", result.ExitCode, strings.TrimSpace(string(result.Output)))
		}
		return nil
	})
	if err != nil {
		res.addError(fmt.Sprintf("lip-sync export of %s failed: %v", nodeID, err))
	}
	return res
}
