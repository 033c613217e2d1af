// Package templates renders the dashboard pages with the templ runtime.
package templates

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// BuildQuery encodes the filter bar as a query string, leaving out defaults.
func BuildQuery(f FilterBar) string {
	q := url.Values{}
	for key, v := range map[string]string{
		"start":      f.Start,
		"end":        f.End,
		"workstream": f.Workstream,
		"pageType":   f.PageType,
		"status":     f.Status,
		"market":     f.Market,
		"q":          f.Search,
		"missing":    f.Missing,
	} {
		if v != "" && v != "All" {
			q.Set(key, v)
		}
	}
	return q.Encode()
}

// PageURL returns path with the filter bar's query attached.
func PageURL(path string, f FilterBar) templ.SafeURL {
	if q := BuildQuery(f); q != "" {
		return templ.URL(path + "?" + q)
	}
	return templ.URL(path)
}

func resultClass(result string) string {
	switch result {
	case "Winner":
		return "result-winner"
	case "Loser":
		return "result-loser"
	case "Inconclusive":
		return "result-inconclusive"
	default:
		return "result-unknown"
	}
}

func flags(r ExperimentRow) string {
	var out []string
	if r.IsOverdue {
		out = append(out, "overdue")
	}
	if r.IsDelayed {
		out = append(out, "delayed")
	}
	if r.IsCompleted {
		out = append(out, "completed")
	}
	return strings.Join(out, " ")
}

// writer accumulates the first write error so templates can write freely.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) rawf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

// text writes s escaped for HTML content and attributes.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}
