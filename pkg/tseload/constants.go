// Package tseload holds the public vocabulary shared by every layer of the
// loader: failure classes and process exit codes.
package tseload

// Exit codes for semantic error classification.
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error
//   - 10+: Failure class of the load run
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitUsageError      = 2
	ExitPanic           = 3
	ExitConfigError     = 10 // missing or invalid configuration
	ExitIOError         = 11 // source file or database unreachable
	ExitDataError       = 12 // malformed CSV or unconvertible value
	ExitConstraintError = 13 // store rejected a row (FK, unique, not null)
	ExitInsertionError  = 14 // any other store failure
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "config.json"
