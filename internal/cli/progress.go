package cli

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"

	"github.com/JonMunkholm/tseload/internal/core"
)

const barTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// progressBars draws one bar per table while its rows are inserted.
// Tables load one after another, so at most one bar is live.
type progressBars struct {
	w     io.Writer
	bar   *pb.ProgressBar
	table string
}

func newProgressBars(w io.Writer) *progressBars {
	return &progressBars{w: w}
}

// update is a core.ProgressCallback.
func (p *progressBars) update(ev core.Progress) {
	switch ev.State {
	case core.StateInserting:
		if p.bar == nil || p.table != ev.Table {
			p.start(ev)
		}
		p.bar.SetCurrent(int64(ev.Done))
	case core.StateCommitted:
		if p.bar != nil && p.table == ev.Table {
			p.bar.SetCurrent(int64(ev.Done))
			p.finish()
		}
	case core.StateRolledBack, core.StateAborted:
		if p.bar != nil && p.table == ev.Table {
			p.bar.Set("prefix", padTable(ev.Table)+"rolled back ")
			p.finish()
		}
	}
}

func (p *progressBars) start(ev core.Progress) {
	p.finish()

	p.table = ev.Table
	p.bar = pb.ProgressBarTemplate(barTemplate).New(ev.Total)
	p.bar.SetWriter(p.w)
	p.bar.Set("prefix", padTable(ev.Table))
	p.bar.Start()
}

// finish stops the live bar, if any.
func (p *progressBars) finish() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
	p.table = ""
}

func padTable(name string) string {
	return fmt.Sprintf("%-22s", name)
}
