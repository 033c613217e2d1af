package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/crodash/internal/shared/middleware"
)

const styles = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2937}
nav{background:#111827;padding:.75rem 1.5rem}nav a{color:#f9fafb;margin-right:1rem;text-decoration:none}
main{padding:1.5rem}form.filters{display:flex;flex-wrap:wrap;gap:.5rem;margin-bottom:1rem}
.cards{display:flex;gap:1rem}.card{border:1px solid #e5e7eb;border-radius:6px;padding:1rem;min-width:8rem}
table{border-collapse:collapse;width:100%}td,th{border-bottom:1px solid #e5e7eb;padding:.4rem;text-align:left}
.result-winner{color:#047857}.result-loser{color:#b91c1c}.result-inconclusive{color:#92400e}
.overdue{background:#fef2f2}.delayed{background:#fffbeb}`

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if middleware.IsHTMX(ctx) {
			return body.Render(ctx, out)
		}
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(` | CRO Dashboard</title><style>`)
		w.raw(styles)
		w.raw(`</style><script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body><nav><a href="/">Overview</a><a href="/repository">Repository</a></nav><main>`)
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw(`</main></body></html>`)
		return w.err
	})
}

func filterForm(w *writer, action string, f FilterBar) {
	w.rawf(`<form class="filters" method="get" action="%[1]s" hx-get="%[1]s" hx-target="main" hx-push-url="true">`, templ.EscapeString(action))
	dateInput(w, "start", f.Start)
	dateInput(w, "end", f.End)
	selectInput(w, "workstream", f.Workstream, f.Workstreams)
	selectInput(w, "pageType", f.PageType, f.PageTypes)
	selectInput(w, "status", f.Status, f.Statuses)
	selectInput(w, "market", f.Market, f.Markets)
	w.raw(`<input type="search" name="q" placeholder="Search" value="`)
	w.text(f.Search)
	w.raw(`">`)
	selectInput(w, "missing", f.Missing, []string{"include", "exclude"})
	w.raw(`<button type="submit">Apply</button></form>`)
}

func dateInput(w *writer, name, value string) {
	w.rawf(`<input type="date" name="%s" value="`, name)
	w.text(value)
	w.raw(`">`)
}

func selectInput(w *writer, name, selected string, options []string) {
	w.rawf(`<select name="%s">`, name)
	for _, o := range options {
		w.raw(`<option value="`)
		w.text(o)
		w.raw(`"`)
		if o == selected {
			w.raw(` selected`)
		}
		w.raw(`>`)
		w.text(o)
		w.raw(`</option>`)
	}
	w.raw(`</select>`)
}
