package web

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/analytics"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/filter"
	"github.com/emiliopalmerini/crodash/internal/normalize"
	"github.com/emiliopalmerini/crodash/internal/util"
	"github.com/emiliopalmerini/crodash/internal/web/templates"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	all, builtAt, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	exps := filter.Apply(all, f)
	stats := analytics.Overview(exps, f.Range)

	page := templates.OverviewPage{
		Filters:     filterBar(f, filter.BuildOptions(all)),
		BuiltAt:     builtAt,
		Total:       stats.Total,
		Completed:   stats.Completed,
		Winners:     stats.Winners,
		WinRate:     stats.WinRate,
		Workstreams: distributions(stats.Workstreams),
		PageTypes:   distributions(stats.PageTypes),
		Results:     distributions(stats.Results),
		Phases:      distributions(analytics.Planning(exps).Counts()),
	}
	s.render(w, r, templates.Overview(page))
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	all, builtAt, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	exps := filter.Apply(all, f)

	rows := make([]templates.ExperimentRow, len(exps))
	for i := range exps {
		rows[i] = experimentRow(&exps[i])
	}
	s.render(w, r, templates.Repository(templates.RepositoryPage{
		Filters: filterBar(f, filter.BuildOptions(all)),
		BuiltAt: builtAt,
		Rows:    rows,
	}))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		s.log.Error("failed to render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func filterBar(f filter.Filters, opts filter.Options) templates.FilterBar {
	return templates.FilterBar{
		Start:       f.Range.Start.Format(normalize.ISODate),
		End:         f.Range.End.Format(normalize.ISODate),
		Workstream:  f.Workstream,
		PageType:    f.PageType,
		Status:      f.Status,
		Market:      f.Market,
		Search:      f.Search,
		Missing:     f.MissingDates.String(),
		Workstreams: opts.Workstreams,
		PageTypes:   opts.PageTypes,
		Statuses:    opts.Statuses,
		Markets:     opts.Markets,
	}
}

func distributions(counts []analytics.Count) []templates.Distribution {
	out := make([]templates.Distribution, len(counts))
	for i, c := range counts {
		out[i] = templates.Distribution{Name: c.Name, Value: c.Value}
	}
	return out
}

func experimentRow(e *domain.Experiment) templates.ExperimentRow {
	return templates.ExperimentRow{
		ID:          e.ID,
		Code:        e.Code,
		Title:       e.Title,
		Status:      e.DisplayStatus,
		Result:      string(e.Result),
		Start:       util.FormatDate(e.StartDate),
		End:         util.FormatDate(e.EndDate),
		Markets:     strings.Join(e.Markets, ", "),
		PageType:    e.PageType,
		Workstream:  e.Workstream,
		URL:         e.URL,
		IsOverdue:   e.IsOverdue,
		IsDelayed:   e.IsDelayed,
		IsCompleted: e.IsCompleted,
	}
}
