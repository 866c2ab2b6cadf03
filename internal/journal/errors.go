package journal

import (
	"git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.JournalError("could not open build journal").Build()

	// ErrInitializeSchemaFailed indicates the journal schema could not be created.
	ErrInitializeSchemaFailed = errors.JournalError("failed to initialize build journal schema").Build()

	// ErrRunNotFound indicates a run id that was never started.
	ErrRunNotFound = errors.NotFoundError("build run not found").Build()
)
