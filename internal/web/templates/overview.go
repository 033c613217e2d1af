package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Overview renders the headline cards and distributions.
func Overview(p OverviewPage) templ.Component {
	return Layout("Overview", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>Overview</h1>`)
		filterForm(w, "/", p.Filters)

		w.raw(`<section class="cards">`)
		card(w, "Experiments", p.Total)
		card(w, "Completed", p.Completed)
		card(w, "Winners", p.Winners)
		w.rawf(`<div class="card"><h3>Win rate</h3><p id="win-rate">%d%%</p></div>`, p.WinRate)
		w.raw(`</section>`)

		distribution(w, "Workstreams", p.Workstreams)
		distribution(w, "Page types", p.PageTypes)
		distribution(w, "Results", p.Results)
		distribution(w, "Planning", p.Phases)

		if !p.BuiltAt.IsZero() {
			w.raw(`<footer>Data as of `)
			w.text(p.BuiltAt.UTC().Format("2006-01-02 15:04 UTC"))
			w.raw(`</footer>`)
		}
		return w.err
	}))
}

func card(w *writer, label string, value int) {
	w.raw(`<div class="card"><h3>`)
	w.text(label)
	w.rawf(`</h3><p>%d</p></div>`, value)
}

func distribution(w *writer, title string, items []Distribution) {
	w.raw(`<section><h2>`)
	w.text(title)
	w.raw(`</h2>`)
	if len(items) == 0 {
		w.raw(`<p class="empty">No data</p></section>`)
		return
	}
	w.raw(`<table><tbody>`)
	for _, it := range items {
		w.raw(`<tr><td>`)
		w.text(it.Name)
		w.rawf(`</td><td>%d</td></tr>`, it.Value)
	}
	w.raw(`</tbody></table></section>`)
}
