package jobs

import (
	"context"
	"errors"
	"os/exec"
)

// ExecResult is the outcome of one external process.
type ExecResult struct {
	ExitCode int
	// Output is stdout and stderr interleaved.
	Output []byte
}

// Executor runs external tools. Run returns an error only when the process
// could not be started or was interrupted; a non-zero exit is reported in
// ExecResult.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (ExecResult, error)
	Available(name string) bool
}

// ExecExecutor runs tools with os/exec.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, name string, args ...string) (ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return ExecResult{Output: out}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return ExecResult{ExitCode: exitErr.ExitCode(), Output: out}, nil
	}
	if ctx.Err() != nil {
		return ExecResult{Output: out}, ctx.Err()
	}
	return ExecResult{Output: out}, err
}

// Available reports whether name resolves to an executable, either as a
// path or through PATH.
func (ExecExecutor) Available(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
