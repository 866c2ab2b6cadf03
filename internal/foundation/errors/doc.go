// Package errors provides foundational, type-safe error primitives used across assetbuilder.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, validation, filesystem, watch, journal)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - FatalExitError: an external tool failure that halts the process with the tool's status
//   - CLIErrorAdapter: error presentation and exit codes
//
// Example usage:
//
//	err := errors.WatchError("source root is not a directory").
//		WithContext("root", root).
//		Build()
package errors
