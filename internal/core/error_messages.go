package core

// # Error Codes Reference
//
// This file maps technical errors to short diagnostics with codes, printed as
// the final line of a failed run so operators can look them up.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: The table already holds a row with this key
//	        Action: Load into an empty schema; loading is not incremental
//	        Patterns: "duplicate key"
//
//	DB002 - Foreign key: A referenced row does not exist
//	        Action: Check the load order and that referenced entities were extracted
//	        Patterns: "violates foreign key"
//
//	DB003 - Not null: A required field is absent in the source
//	        Action: Inspect the source row; sentinel values count as absent
//	        Patterns: "violates not-null", "null value in column"
//
//	DB004 - Enum value rejected by the database
//	        Action: Check the schema's enum types match this loader version
//	        Patterns: "invalid input value for enum"
//
//	DB005 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB006 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date       Patterns: "invalid date"
//	VAL002 - Invalid integer    Patterns: "bit integer", "invalid integer"
//	VAL003 - Invalid enum       Patterns: "invalid enum"
//	VAL004 - Invalid round      Patterns: "invalid round"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Missing column    Patterns: "missing required column"
//	FILE002 - Invalid CSV       Patterns: "invalid csv"
//	FILE003 - Empty file        Patterns: "empty csv"
//	FILE004 - File not found    Patterns: "no such file"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Config file not found   Patterns: "config file not found"
//	CFG002 - Required key missing    Patterns: "required key"
//	CFG003 - Invalid config          Patterns: "config validation", "parse config"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Interrupted             Patterns: "context canceled"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the log for the original
// technical error.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides operator-facing error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for reference
}

// errorPattern defines a pattern to match and its corresponding message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicateKey = UserMessage{
		Message: "The table already holds a row with this key",
		Action:  "Load into an empty schema; loading is not incremental",
		Code:    "DB001",
	}
	msgForeignKey = UserMessage{
		Message: "A referenced row does not exist",
		Action:  "Check the load order and that referenced entities were extracted",
		Code:    "DB002",
	}
	msgNotNull = UserMessage{
		Message: "A required field is absent in the source",
		Action:  "Inspect the source row; sentinel values count as absent",
		Code:    "DB003",
	}
	msgInvalidInt = UserMessage{
		Message: "Invalid integer value",
		Action:  "Check the numeric columns of the reported line",
		Code:    "VAL002",
	}
	msgInvalidConfig = UserMessage{
		Message: "Invalid configuration",
		Action:  "Fix the reported keys in the config file or environment",
		Code:    "CFG003",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB007)
	// =========================================================================
	{pattern: "duplicate key", msg: msgDuplicateKey},
	{pattern: "violates foreign key", msg: msgForeignKey},
	{pattern: "violates not-null", msg: msgNotNull},
	{pattern: "null value in column", msg: msgNotNull},
	{
		pattern: "invalid input value for enum",
		msg: UserMessage{
			Message: "Enum value rejected by the database",
			Action:  "Check the schema's enum types match this loader version",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DB_URI and that the server is running",
			Code:    "DB005",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Rerun the load; committed entities must be cleared first",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Make sure no other writer uses the schema and rerun",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Dates must be dd/mm/yyyy",
			Code:    "VAL001",
		},
	},
	{pattern: "bit integer", msg: msgInvalidInt},
	{pattern: "invalid integer", msg: msgInvalidInt},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Check the allowed values for this field",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid round",
		msg: UserMessage{
			Message: "Election round is not 1 or 2",
			Action:  "Check NR_TURNO of the reported line",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check that the file is a vote-count export with the standard header",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is ';'-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty csv",
		msg: UserMessage{
			Message: "The source file is empty",
			Action:  "Point FILE_PATH at an export with a header and data rows",
			Code:    "FILE003",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001-CFG003)
	// =========================================================================
	{
		pattern: "config file not found",
		msg: UserMessage{
			Message: "Config file not found",
			Action:  "Create config.json or pass --config",
			Code:    "CFG001",
		},
	},
	{
		pattern: "required key",
		msg: UserMessage{
			Message: "A required configuration key is missing",
			Action:  "Set DB_URI and FILE_PATH in the config file or environment",
			Code:    "CFG002",
		},
	},
	{pattern: "config validation", msg: msgInvalidConfig},
	{pattern: "parse config", msg: msgInvalidConfig},

	// after config patterns so a missing config file is not reported as FILE004
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Source file not found",
			Action:  "Check FILE_PATH",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Run Errors (RUN001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Run was interrupted",
			Action:  "Entities committed before the interruption remain in the store",
			Code:    "RUN001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the original error",
	Code:    "ERR000",
}

// MapError converts a technical error to an operator-facing message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New(`null value in column "nome_urna" violates not-null constraint`)
//	msg := MapError(err)
//	// msg.Code == "DB003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
