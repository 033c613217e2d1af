package pipeline

import (
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

// Options configures one pipeline run.
type Options struct {
	Now          time.Time
	StatusPolicy domain.StatusPolicy
	// Legacy, when set, enriches every live row before it is built.
	Legacy *LegacyIndex
}

// Report summarises a run. Diagnostic counts refer to the final, deduplicated
// collection.
type Report struct {
	RowsRead       int
	Dropped        int
	Duplicates     int
	Enriched       int
	AmbiguousDates int
	MissingStart   int
	MissingEnd     int
}

// Process builds the full experiment collection from one snapshot of rows.
// When two rows share an id the later one wins, while the experiment keeps
// the position where that id first appeared.
func Process(rows []SourceRow, opts Options) ([]domain.Experiment, Report) {
	b := Builder{Now: opts.Now, StatusPolicy: opts.StatusPolicy}
	rep := Report{RowsRead: len(rows)}

	out := make([]domain.Experiment, 0, len(rows))
	diags := make([]Diagnostics, 0, len(rows))
	pos := make(map[string]int, len(rows))

	for _, row := range rows {
		if live, ok := row.(LiveRow); ok && opts.Legacy != nil {
			var hit bool
			if live, hit = opts.Legacy.Enrich(live); hit {
				rep.Enriched++
			}
			row = live
		}

		e, diag, ok := b.build(row)
		if !ok {
			rep.Dropped++
			continue
		}
		if i, seen := pos[e.ID]; seen {
			rep.Duplicates++
			out[i] = e
			diags[i] = diag
			continue
		}
		pos[e.ID] = len(out)
		out = append(out, e)
		diags = append(diags, diag)
	}

	for _, d := range diags {
		rep.AmbiguousDates += d.AmbiguousDates
		if d.MissingStart {
			rep.MissingStart++
		}
		if d.MissingEnd {
			rep.MissingEnd++
		}
	}
	return out, rep
}

// LiveSourceRows widens live rows to the SourceRow variant.
func LiveSourceRows(rows []LiveRow) []SourceRow {
	out := make([]SourceRow, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
