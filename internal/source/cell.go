package source

import "strings"

// Cell is a single source value. An empty field, or a sentinel removed by
// Normalize, is absent (Valid == false).
type Cell struct {
	String string
	Valid  bool
}

// Text builds a present cell.
func Text(s string) Cell {
	return Cell{String: s, Valid: true}
}

// Absent is the cell for a missing value.
var Absent = Cell{}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (c *Cell) UnmarshalCSV(s string) error {
	c.String = s
	c.Valid = strings.TrimSpace(s) != ""
	return nil
}

// Trimmed returns the cell text without surrounding whitespace, or "" when
// the cell is absent.
func (c Cell) Trimmed() string {
	if !c.Valid {
		return ""
	}
	return strings.TrimSpace(c.String)
}

// MarshalCSV implements gocsv.TypeMarshaller. Together with UnmarshalCSV it
// makes gocsv treat a Cell as one column instead of walking its fields.
func (c Cell) MarshalCSV() (string, error) {
	if !c.Valid {
		return "", nil
	}
	return c.String, nil
}
