package errors

import (
	stderrors "errors"
	"fmt"
)

// FatalExitError reports an external tool that exited non-zero where the
// failure must stop the whole process. Code is propagated as the process
// exit status.
type FatalExitError struct {
	Tool   string
	Code   int
	Output string
}

func (e *FatalExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// AsFatalExit extracts a FatalExitError from the chain.
func AsFatalExit(err error) (*FatalExitError, bool) {
	var fe *FatalExitError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsFatal reports whether err must halt the process.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetSeverity(err) == SeverityFatal
}
