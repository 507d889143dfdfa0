package core

// convert.go provides type conversion functions for normalized cells to
// PostgreSQL types.
//
// Absent cells become invalid (NULL) pgtype values. Present cells that cannot
// be converted return an error wrapping tseload.ErrFormat.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/tseload/internal/source"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// DateLayout is the export's day/month/year date format.
const DateLayout = "02/01/2006"

// Rounds lists the valid election round values, in their stored form.
var Rounds = []string{"1", "2"}

// ToPgText converts a cell to pgtype.Text.
// Returns invalid if the cell is absent.
func ToPgText(c source.Cell) pgtype.Text {
	if !c.Valid {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: c.Trimmed(), Valid: true}
}

// ParseDate parses a dd/mm/yyyy string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want dd/mm/yyyy)", tseload.ErrFormat, s)
	}
	return t, nil
}

// ToPgDate converts a dd/mm/yyyy cell to pgtype.Date.
func ToPgDate(c source.Cell) (pgtype.Date, error) {
	if !c.Valid {
		return pgtype.Date{Valid: false}, nil
	}
	t, err := ParseDate(c.String)
	if err != nil {
		return pgtype.Date{Valid: false}, err
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func parseInt(c source.Cell, bits int) (int64, bool, error) {
	if !c.Valid {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(c.Trimmed(), 10, bits)
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid %d-bit integer %q", tseload.ErrFormat, bits, c.Trimmed())
	}
	return n, true, nil
}

// ToPgInt2 converts a cell to pgtype.Int2.
func ToPgInt2(c source.Cell) (pgtype.Int2, error) {
	n, ok, err := parseInt(c, 16)
	return pgtype.Int2{Int16: int16(n), Valid: ok}, err
}

// ToPgInt4 converts a cell to pgtype.Int4.
func ToPgInt4(c source.Cell) (pgtype.Int4, error) {
	n, ok, err := parseInt(c, 32)
	return pgtype.Int4{Int32: int32(n), Valid: ok}, err
}

// ToPgInt8 converts a cell to pgtype.Int8.
func ToPgInt8(c source.Cell) (pgtype.Int8, error) {
	n, ok, err := parseInt(c, 64)
	return pgtype.Int8{Int64: n, Valid: ok}, err
}

// ToPgFlag maps the export's single-character flag: "S" is true, anything
// else, including "s" and an absent cell, is false.
func ToPgFlag(c source.Cell) pgtype.Bool {
	return pgtype.Bool{Bool: c.Valid && c.Trimmed() == "S", Valid: true}
}

// ToPgEnum converts a cell to one of values. Matching is exact after
// trimming surrounding whitespace; any other spelling is a format error.
func ToPgEnum(c source.Cell, values []string) (pgtype.Text, error) {
	if !c.Valid {
		return pgtype.Text{Valid: false}, nil
	}
	v, ok := matchEnum(c.Trimmed(), values)
	if !ok {
		return pgtype.Text{Valid: false}, fmt.Errorf("%w: invalid enum %q (want one of: %s)",
			tseload.ErrFormat, c.Trimmed(), strings.Join(values, ", "))
	}
	return pgtype.Text{String: v, Valid: true}, nil
}

// RoundEnum converts a numeric round ("2", "02") to its stored string form.
func RoundEnum(c source.Cell) (pgtype.Text, error) {
	if !c.Valid {
		return pgtype.Text{Valid: false}, nil
	}
	n, err := strconv.Atoi(c.Trimmed())
	if err != nil {
		return pgtype.Text{Valid: false}, fmt.Errorf("%w: invalid round %q", tseload.ErrFormat, c.Trimmed())
	}
	return ToPgEnum(source.Text(strconv.Itoa(n)), Rounds)
}

func matchEnum(value string, values []string) (string, bool) {
	for _, ev := range values {
		if ev == value {
			return ev, true
		}
	}
	return "", false
}
