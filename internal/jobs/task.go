package jobs

// Kind identifies what a Task does with its path.
type Kind string

const (
	KindSkeletonExport Kind = "skeleton-export"
	KindScriptCompile  Kind = "script-compile"
	KindLipSyncExport  Kind = "lipsync-export"
	KindImageConvert   Kind = "image-convert"
)

// Task is one unit of work: a source path (or dialogue node id for
// lip-sync) and the kind of job to run on it.
type Task struct {
	Kind Kind
	Path string
}

// Tasks builds tasks of one kind from a list of paths.
func Tasks(kind Kind, paths []string) []Task {
	out := make([]Task, len(paths))
	for i, p := range paths {
		out[i] = Task{Kind: kind, Path: p}
	}
	return out
}

// Result is what one task produced. Empty lists mean success.
type Result struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the task finished without errors or warnings.
func (r Result) OK() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Failed reports whether the task's output is unusable.
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge appends other's entries to r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
