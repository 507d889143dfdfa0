package tseload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of a load run.
// Every error returned by the loader wraps exactly one of these, so callers
// can branch with errors.Is while the original cause stays in the chain.
var (
	// ErrConfig indicates a missing or malformed configuration.
	ErrConfig = errors.New("configuration error")

	// ErrIO indicates the source file or the database could not be reached.
	ErrIO = errors.New("i/o error")

	// ErrParse indicates the source file is not a well-formed export.
	ErrParse = errors.New("parse error")

	// ErrFormat indicates a value that cannot be converted (date, number, enum).
	ErrFormat = errors.New("format error")

	// ErrConstraint indicates a foreign-key, uniqueness or not-null violation
	// raised by the store.
	ErrConstraint = errors.New("constraint violation")

	// ErrInsertion indicates any other store failure while writing a batch.
	ErrInsertion = errors.New("insertion error")
)

// ExitCodeForError returns the process exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	case errors.Is(err, ErrParse), errors.Is(err, ErrFormat):
		return ExitDataError
	case errors.Is(err, ErrConstraint):
		return ExitConstraintError
	case errors.Is(err, ErrInsertion):
		return ExitInsertionError
	}

	// cobra reports flag and argument misuse as plain errors
	errStr := err.Error()
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.Contains(errStr, "arg(s), received") {
		return ExitUsageError
	}

	return ExitGeneralError
}
