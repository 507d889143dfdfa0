package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tseload/internal/source"
)

// keySep joins dedup key parts; it cannot occur in Latin-1 text.
const keySep = "\x1f"

// Extraction is the ordered set of insert rows produced for one table.
type Extraction struct {
	Table   string
	Rows    [][]any
	Lines   []int // Source line of each row, for diagnostics
	Skipped int   // Source rows dropped as duplicates or keyless
}

// Len returns the number of extracted rows.
func (e *Extraction) Len() int {
	return len(e.Rows)
}

// Extract builds the distinct rows of def from a normalized table.
//
// Rows are deduplicated on def.Info.DedupKey keeping the first occurrence in
// source order. A row whose key columns are all absent identifies no entity
// and is skipped. Tables without a dedup key keep every row.
func Extract(def TableDefinition, t *source.Table) (*Extraction, error) {
	ext := &Extraction{
		Table: def.Info.Key,
		Rows:  make([][]any, 0, t.Len()),
		Lines: make([]int, 0, t.Len()),
	}

	seen := make(map[string]struct{})

	for i, rec := range t.Records {
		lineNum := i + 2 // 1-indexed, after header

		if len(def.Info.DedupKey) > 0 {
			key, ok, err := dedupKey(rec, def.Info.DedupKey, def.FieldSpecs)
			if err != nil {
				var ve *ValidationError
				if errors.As(err, &ve) {
					ve.Line = lineNum
					return nil, fmt.Errorf("%s: %w", def.Info.Key, err)
				}
				return nil, fmt.Errorf("%s: line %d: %w", def.Info.Key, lineNum, err)
			}
			if !ok {
				ext.Skipped++
				continue
			}
			if _, dup := seen[key]; dup {
				ext.Skipped++
				continue
			}
			seen[key] = struct{}{}
		}

		if err := ValidateRecord(rec, def.FieldSpecs); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Line = lineNum
			}
			return nil, fmt.Errorf("%s: %w", def.Info.Key, err)
		}

		args, err := def.Build(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", def.Info.Key, lineNum, err)
		}

		ext.Rows = append(ext.Rows, args)
		ext.Lines = append(ext.Lines, lineNum)
	}

	return ext, nil
}

// dedupKey joins the trimmed key cells. Columns with an integer field spec
// are keyed by value, so "100" and "0100" name the same entity. ok is false
// when every part is absent.
func dedupKey(rec *source.Record, columns []string, specs []FieldSpec) (string, bool, error) {
	parts := make([]string, len(columns))
	present := false

	for i, col := range columns {
		cell, err := rec.Value(col)
		if err != nil {
			return "", false, err
		}
		if cell.Valid {
			present = true
			v, err := keyValue(cell.Trimmed(), fieldType(col, specs))
			if err != nil {
				return "", false, &ValidationError{Field: col, Value: cell.Trimmed(), Message: err.Error()}
			}
			parts[i] = "v" + v
		} else {
			parts[i] = "-"
		}
	}

	return strings.Join(parts, keySep), present, nil
}

// keyValue returns the canonical key text of a present cell.
func keyValue(value string, ft FieldType) (string, error) {
	if ft != FieldInt {
		return value, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q", fieldTypeName(ft), value)
	}
	return strconv.FormatInt(n, 10), nil
}

func fieldType(column string, specs []FieldSpec) FieldType {
	for _, spec := range specs {
		if spec.Name == column {
			return spec.Type
		}
	}
	return FieldText
}
