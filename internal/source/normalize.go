package source

import "strings"

// Sentinels are the literal values TSE uses for "no data". Both the
// "not applicable" token and the integer -1 normalize to an absent cell.
var Sentinels = map[string]struct{}{
	"#NULO#": {},
	"-1":     {},
}

// IsSentinel reports whether s is a "no data" marker.
func IsSentinel(s string) bool {
	_, ok := Sentinels[strings.TrimSpace(s)]
	return ok
}

// Normalize returns a copy of t in which every sentinel cell, in any
// column, is absent. t itself is not modified.
func Normalize(t *Table) *Table {
	out := &Table{
		Header:  append([]string(nil), t.Header...),
		Records: make([]*Record, len(t.Records)),
	}

	for i, rec := range t.Records {
		cp := *rec
		for _, c := range cp.cells() {
			if c.Valid && IsSentinel(c.String) {
				*c = Absent
			}
		}
		out.Records[i] = &cp
	}

	return out
}

// NormalizeStats counts the sentinel cells Normalize would clear.
func NormalizeStats(t *Table) int {
	n := 0
	for _, rec := range t.Records {
		for _, c := range rec.cells() {
			if c.Valid && IsSentinel(c.String) {
				n++
			}
		}
	}
	return n
}
