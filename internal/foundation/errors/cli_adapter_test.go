package errors

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "filesystem", err: WrapError(os.ErrPermission, CategoryFileSystem, "failed to list images").Build(), expected: 11},
		{name: "journal", err: JournalError("locked").Build(), expected: 12},
		{name: "watch", err: WatchError("fsnotify").Build(), expected: 12},
		{name: "fatal exporter exit", err: &FatalExitError{Tool: "spine", Code: 42}, expected: 42},
		{name: "fatal exit without code", err: &FatalExitError{Tool: "spine"}, expected: 1},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "classified", err: ConfigError("bad config").Build(), contains: "bad config"},
		{name: "fatal exit shows tool output", err: &FatalExitError{Tool: "spine", Code: 2, Output: "Skeleton not found"}, contains: "Skeleton not found"},
		{name: "unclassified", err: &customError{msg: "unknown error"}, contains: "Error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.FormatError(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want to contain %q", got, tt.contains)
			}
		})
	}

	if got := adapter.FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
