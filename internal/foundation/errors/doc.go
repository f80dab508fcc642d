// Package errors provides the classified error primitives used across the state store.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, queue, store, journal, source, internal)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, cause and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and presentation for the command line
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryJournal, "append transition failed").
//		WithContext("state_type", key.String()).
//		Build()
package errors
