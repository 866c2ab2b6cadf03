package jobs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// fakeExecutor records invocations and simulates the external tools.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	missing map[string]bool
	// exit codes keyed by tool name
	exit map[string]int
	// output is returned for every call
	output string
	// produce simulates the tool writing its files
	produce func(name string, args []string) error
}

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) (ExecResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	code := f.exit[name]
	f.mu.Unlock()

	if code == 0 && f.produce != nil {
		if err := f.produce(name, args); err != nil {
			return ExecResult{}, err
		}
	}
	return ExecResult{ExitCode: code, Output: []byte(f.output)}, nil
}

func (f *fakeExecutor) Available(name string) bool {
	return !f.missing[name]
}

func (f *fakeExecutor) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// argAfter returns the argument following flag.
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
