package tables

import (
	"fmt"

	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/source"
)

// args accumulates insert arguments in column order and keeps the first
// conversion error, tagged with its source column.
type args struct {
	vals []any
	err  error
}

func newArgs(n int) *args {
	return &args{vals: make([]any, 0, n)}
}

func (a *args) add(column string, v any, err error) *args {
	if err != nil && a.err == nil {
		a.err = fmt.Errorf("%s: %w", column, err)
	}
	a.vals = append(a.vals, v)
	return a
}

func (a *args) text(c source.Cell) *args {
	return a.add("", core.ToPgText(c), nil)
}

func (a *args) int2(column string, c source.Cell) *args {
	v, err := core.ToPgInt2(c)
	return a.add(column, v, err)
}

func (a *args) int4(column string, c source.Cell) *args {
	v, err := core.ToPgInt4(c)
	return a.add(column, v, err)
}

func (a *args) int8(column string, c source.Cell) *args {
	v, err := core.ToPgInt8(c)
	return a.add(column, v, err)
}

func (a *args) date(column string, c source.Cell) *args {
	v, err := core.ToPgDate(c)
	return a.add(column, v, err)
}

func (a *args) enum(column string, c source.Cell, values []string) *args {
	v, err := core.ToPgEnum(c, values)
	return a.add(column, v, err)
}

func (a *args) round(column string, c source.Cell) *args {
	v, err := core.RoundEnum(c)
	return a.add(column, v, err)
}

func (a *args) flag(c source.Cell) *args {
	return a.add("", core.ToPgFlag(c), nil)
}

func (a *args) done() ([]any, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.vals, nil
}
