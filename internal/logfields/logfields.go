package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyBatch      = "batch"
	KeyTaskKind   = "task_kind"
	KeyPath       = "path"
	KeyDestPath   = "dest_path"
	KeyEvent      = "event"
	KeyRule       = "rule"
	KeyNodeID     = "node_id"
	KeyCharacter  = "character"
	KeyTool       = "tool"
	KeyExitCode   = "exit_code"
	KeyWorkers    = "workers"
	KeyTasks      = "tasks"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Batch(title string) slog.Attr    { return slog.String(KeyBatch, title) }
func TaskKind(k string) slog.Attr     { return slog.String(KeyTaskKind, k) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DestPath(p string) slog.Attr     { return slog.String(KeyDestPath, p) }
func Event(kind string) slog.Attr     { return slog.String(KeyEvent, kind) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func NodeID(id string) slog.Attr      { return slog.String(KeyNodeID, id) }
func Character(name string) slog.Attr { return slog.String(KeyCharacter, name) }
func Tool(path string) slog.Attr      { return slog.String(KeyTool, path) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func Tasks(n int) slog.Attr           { return slog.Int(KeyTasks, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
