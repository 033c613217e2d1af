// Package filter selects the experiments currently in view.
package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

// All disables an equality filter.
const All = "All"

// Filters is the global dashboard selection. Empty strings behave like All
// and a zero Range disables the date filter.
type Filters struct {
	Range        domain.DateRange
	Workstream   string
	PageType     string
	Status       string
	Market       string
	Search       string
	MissingDates domain.MissingDatePolicy
}

// Default returns the dashboard's initial selection at instant now.
func Default(now time.Time) Filters {
	return Filters{
		Range:      domain.DefaultRange(now),
		Workstream: All,
		PageType:   All,
		Status:     All,
		Market:     All,
	}
}

// Match reports whether e passes every predicate of f.
func (f Filters) Match(e *domain.Experiment) bool {
	if active(f.Workstream) && e.Workstream != f.Workstream {
		return false
	}
	if active(f.PageType) && e.PageType != f.PageType {
		return false
	}
	if active(f.Status) && e.StatusClean != f.Status {
		return false
	}
	if active(f.Market) && !e.InMarket(f.Market) {
		return false
	}
	if f.Search != "" && !matchesSearch(e, f.Search) {
		return false
	}
	if f.hasRange() && !domain.InRange(e, f.Range, f.MissingDates) {
		return false
	}
	return true
}

// Apply returns the experiments matching f, preserving order.
func Apply(exps []domain.Experiment, f Filters) []domain.Experiment {
	out := make([]domain.Experiment, 0, len(exps))
	for i := range exps {
		if f.Match(&exps[i]) {
			out = append(out, exps[i])
		}
	}
	return out
}

func (f Filters) hasRange() bool {
	return !f.Range.Start.IsZero() && !f.Range.End.IsZero()
}

func active(v string) bool {
	return v != "" && v != All
}

func matchesSearch(e *domain.Experiment, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{e.Title, e.Code, e.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Options are the values offered by the dashboard dropdowns. Every list
// starts with All.
type Options struct {
	Workstreams []string `json:"workstreams"`
	PageTypes   []string `json:"pageTypes"`
	Statuses    []string `json:"statuses"`
	Markets     []string `json:"markets"`
}

// BuildOptions collects the distinct non-empty values found in exps.
func BuildOptions(exps []domain.Experiment) Options {
	var ws, pt, st, mk []string
	for i := range exps {
		e := &exps[i]
		ws = append(ws, e.Workstream)
		pt = append(pt, e.PageType)
		st = append(st, e.StatusClean)
		mk = append(mk, e.Markets...)
	}
	return Options{
		Workstreams: distinct(ws),
		PageTypes:   distinct(pt),
		Statuses:    distinct(st),
		Markets:     distinct(mk),
	}
}

func distinct(values []string) []string {
	values = slices.DeleteFunc(values, func(s string) bool { return s == "" })
	slices.Sort(values)
	return append([]string{All}, slices.Compact(values)...)
}
