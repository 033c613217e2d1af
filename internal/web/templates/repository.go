package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Repository renders the searchable experiment table.
func Repository(p RepositoryPage) templ.Component {
	return Layout("Repository", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>Repository</h1>`)
		filterForm(w, "/repository", p.Filters)
		w.rawf(`<p id="count">%d experiments</p>`, len(p.Rows))

		w.raw(`<table><thead><tr><th>Code</th><th>Title</th><th>Status</th><th>Result</th>` +
			`<th>Start</th><th>End</th><th>Markets</th><th>Page type</th><th>Workstream</th></tr></thead><tbody>`)
		for _, r := range p.Rows {
			w.raw(`<tr class="`)
			w.text(flags(r))
			w.raw(`"><td>`)
			w.text(r.Code)
			w.raw(`</td><td>`)
			if r.URL != "" {
				w.raw(`<a href="`)
				w.text(string(templ.URL(r.URL)))
				w.raw(`">`)
				w.text(r.Title)
				w.raw(`</a>`)
			} else {
				w.text(r.Title)
			}
			w.raw(`</td><td>`)
			w.text(r.Status)
			w.rawf(`</td><td class="%s">`, resultClass(r.Result))
			w.text(r.Result)
			for _, v := range []string{r.Start, r.End, r.Markets, r.PageType, r.Workstream} {
				w.raw(`</td><td>`)
				w.text(v)
			}
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	}))
}
