package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/tseload/internal/core"
)

type summaryStyles struct {
	header lipgloss.Style
	name   lipgloss.Style
	number lipgloss.Style
	ok     lipgloss.Style
	failed lipgloss.Style
	muted  lipgloss.Style
}

// newSummaryStyles binds styles to w, so colors are dropped when w is not
// a terminal.
func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		header: r.NewStyle().Bold(true),
		name:   r.NewStyle().Width(22),
		number: r.NewStyle().Width(10).Align(lipgloss.Right),
		ok:     r.NewStyle().Width(12).Foreground(lipgloss.Color("42")),
		failed: r.NewStyle().Width(12).Foreground(lipgloss.Color("196")),
		muted:  r.NewStyle().Width(12).Foreground(lipgloss.Color("245")),
	}
}

func (s summaryStyles) state(st core.LoadState) string {
	switch st {
	case core.StateCommitted:
		return s.ok.Render(string(st))
	case core.StateAborted, core.StateRolledBack:
		return s.failed.Render(string(st))
	default:
		return s.muted.Render(string(st))
	}
}

// printRunSummary writes one line per entity of r, in load order.
func printRunSummary(w io.Writer, r *core.RunResult) {
	s := newSummaryStyles(w)

	fmt.Fprintln(w, s.header.Render("Run "+r.RunID))
	fmt.Fprintln(w, s.name.Render("TABLE")+s.muted.Render("STATE")+
		s.number.Render("EXTRACTED")+s.number.Render("SKIPPED")+s.number.Render("INSERTED")+
		s.number.Render("MS"))

	for _, e := range r.Entities {
		fmt.Fprintln(w, s.name.Render(e.Table)+s.state(e.State)+
			s.number.Render(strconv.Itoa(e.Extracted))+
			s.number.Render(strconv.Itoa(e.Skipped))+
			s.number.Render(strconv.Itoa(e.Inserted))+
			s.number.Render(strconv.FormatInt(e.Duration.Milliseconds(), 10)))
	}

	fmt.Fprintf(w, "%d of %d tables committed, %d rows inserted in %s\n",
		len(r.Committed()), len(r.Entities), r.TotalInserted(), r.Duration.Round(time.Millisecond))
}

// printExtractSummary writes the rows each table would receive.
func printExtractSummary(w io.Writer, sourceRows int, exts []*core.Extraction) {
	s := newSummaryStyles(w)

	fmt.Fprintln(w, s.header.Render(fmt.Sprintf("%d source rows", sourceRows)))
	fmt.Fprintln(w, s.name.Render("TABLE")+s.number.Render("ROWS")+s.number.Render("SKIPPED"))
	for _, e := range exts {
		fmt.Fprintln(w, s.name.Render(e.Table)+
			s.number.Render(strconv.Itoa(e.Len()))+
			s.number.Render(strconv.Itoa(e.Skipped)))
	}
}
