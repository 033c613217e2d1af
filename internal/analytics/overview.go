// Package analytics derives the dashboard views from a filtered experiment
// collection. Every function is pure; callers pass the window explicitly.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

// Count is one slice of a distribution.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint aggregates outcomes for experiments started in one month.
type TrendPoint struct {
	Month     string `json:"name"`
	Completed int    `json:"completed"`
	Winners   int    `json:"winners"`
}

// OverviewStats backs the overview page.
type OverviewStats struct {
	Total       int          `json:"total"`
	Completed   int          `json:"completed"`
	Winners     int          `json:"winners"`
	WinRate     int          `json:"winRate"`
	Workstreams []Count      `json:"workstreams"`
	PageTypes   []Count      `json:"pageTypes"`
	Results     []Count      `json:"results"`
	Trend       []TrendPoint `json:"trend"`
}

// unknownPageType is a placeholder some rows carry instead of a page type.
const unknownPageType = "Unknown"

var outcomeOrder = []domain.Result{domain.ResultWinner, domain.ResultLoser, domain.ResultInconclusive}

// Overview computes headline metrics over the experiments that started in r.
// Records that merely overlap r are left out so cards and charts agree.
func Overview(exps []domain.Experiment, r domain.DateRange) OverviewStats {
	var stats OverviewStats
	workstreams := map[string]int{}
	pageTypes := map[string]int{}
	results := map[domain.Result]int{}
	months := map[time.Time]*TrendPoint{}

	for i := range exps {
		e := &exps[i]
		if !domain.StartsInRange(e, r) {
			continue
		}
		stats.Total++

		ws := e.Workstream
		if ws == "" {
			ws = domain.DefaultWorkstream
		}
		workstreams[ws]++

		if pt := e.PageType; pt != "" && pt != unknownPageType && !normalize.LooksLikeURL(pt) {
			pageTypes[pt]++
		}

		month := time.Date(e.StartDate.Year(), e.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		point, ok := months[month]
		if !ok {
			point = &TrendPoint{Month: month.Format("Jan 2006")}
			months[month] = point
		}

		if !e.Result.HasOutcome() {
			continue
		}
		stats.Completed++
		results[e.Result]++
		point.Completed++
		if e.Result == domain.ResultWinner {
			stats.Winners++
			point.Winners++
		}
	}

	if stats.Completed > 0 {
		stats.WinRate = int(math.Floor(float64(stats.Winners)*100/float64(stats.Completed) + 0.5))
	}

	stats.Workstreams = sortedCounts(workstreams)
	stats.PageTypes = sortedCounts(pageTypes)

	resultCounts := map[string]int{}
	for _, res := range outcomeOrder {
		if n := results[res]; n > 0 {
			resultCounts[string(res)] = n
		}
	}
	stats.Results = sortedCounts(resultCounts)

	keys := make([]time.Time, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })
	stats.Trend = make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		stats.Trend = append(stats.Trend, *months[k])
	}

	return stats
}

// sortedCounts orders by value descending, then name.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, v := range m {
		out = append(out, Count{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
