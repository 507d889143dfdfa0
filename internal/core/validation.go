package core

// validation.go checks a record's cells against a table's field specs before
// the record is built into insert arguments. Only the first failure is
// reported; a single bad row aborts the entity anyway.

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/tseload/internal/source"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// ValidationError represents a validation error for a single field.
type ValidationError struct {
	Line    int    // 1-indexed source line, header included
	Field   string // Source column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap classifies every validation failure as a format error.
func (e *ValidationError) Unwrap() error {
	return tseload.ErrFormat
}

// ValidateRecord validates r against specs and returns the first error.
func ValidateRecord(r *source.Record, specs []FieldSpec) error {
	for _, spec := range specs {
		cell, err := r.Value(spec.Name)
		if err != nil {
			return &ValidationError{Field: spec.Name, Message: err.Error()}
		}
		if !cell.Valid {
			continue
		}
		if err := ValidateCell(cell.Trimmed(), spec); err != nil {
			return &ValidationError{Field: spec.Name, Value: cell.Trimmed(), Message: err.Error()}
		}
	}
	return nil
}

// ValidateCell validates a single present value against a field specification.
// Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	switch spec.Type {
	case FieldInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid %s %q", fieldTypeName(spec.Type), value)
		}
	case FieldDate:
		if _, err := ParseDate(value); err != nil {
			return fmt.Errorf("invalid %s %q (want dd/mm/yyyy)", fieldTypeName(spec.Type), value)
		}
	case FieldEnum:
		if _, ok := matchEnum(value, spec.EnumValues); !ok {
			return fmt.Errorf("invalid %s %q", fieldTypeName(spec.Type), value)
		}
	}
	return nil
}

// fieldTypeName returns a human-readable name for a field type.
func fieldTypeName(ft FieldType) string {
	switch ft {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldDate:
		return "date"
	case FieldInt:
		return "integer"
	case FieldFlag:
		return "flag"
	default:
		return "value"
	}
}
