package web

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/analytics"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/filter"
)

// selection resolves the request's filters against one read of the catalog
// and returns that snapshot with its build instant. It writes a 400 response
// and returns ok=false when the query is invalid.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (all []domain.Experiment, builtAt time.Time, f filter.Filters, ok bool) {
	all, builtAt = s.catalog.Experiments()
	now := builtAt
	if now.IsZero() {
		now = s.now()
	}
	f, err := parseFilters(r.URL.Query(), now, s.missing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, builtAt, f, false
	}
	return all, builtAt, f, true
}

// withoutRange copies f with the date predicate disabled.
func withoutRange(f filter.Filters) filter.Filters {
	f.Range = domain.DateRange{}
	return f
}

func (s *Server) handleAPIExperiments(w http.ResponseWriter, r *http.Request) {
	all, builtAt, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	exps := filter.Apply(all, f)
	writeJSON(w, http.StatusOK, experimentsResponse{
		Experiments: toExperimentDTOs(exps),
		Count:       len(exps),
		Range:       toRangeDTO(f.Range),
		BuiltAt:     builtAt,
	})
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	all, _ := s.catalog.Experiments()
	writeJSON(w, http.StatusOK, filter.BuildOptions(all))
}

func (s *Server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	all, _, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Overview(filter.Apply(all, f), f.Range))
}

func (s *Server) handleAPIPlanning(w http.ResponseWriter, r *http.Request) {
	all, _, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": toPlanningDTO(analytics.Planning(filter.Apply(all, f))),
	})
}

func (s *Server) handleAPIMarkets(w http.ResponseWriter, r *http.Request) {
	all, _, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.MarketMatrix(filter.Apply(all, f)))
}

func (s *Server) handleAPIMap(w http.ResponseWriter, r *http.Request) {
	all, _, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"countries": analytics.CountryStats(filter.Apply(all, f)),
	})
}

// handleAPITimeline uses its own month window anchored at the catalog build
// instant instead of the global date range.
func (s *Server) handleAPITimeline(w http.ResponseWriter, r *http.Request) {
	all, builtAt, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	months, err := parseMonths(r.URL.Query(), analytics.DefaultTimelineMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if builtAt.IsZero() {
		builtAt = s.now()
	}
	window := analytics.TimelineWindow(builtAt, months)
	groups := analytics.Timeline(filter.Apply(all, withoutRange(f)), window)
	writeJSON(w, http.StatusOK, toTimelineDTO(window, groups))
}

// handleAPIQuality checks the range itself, so only the other predicates
// narrow its input.
func (s *Server) handleAPIQuality(w http.ResponseWriter, r *http.Request) {
	all, _, f, ok := s.selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Quality(filter.Apply(all, withoutRange(f)), f.Range))
}

var errNoRuns = errors.New("no sync run recorded")

func (s *Server) handleAPISyncLatest(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, errNoRuns)
		return
	}
	run, err := s.runs.Latest(r.Context())
	if err != nil {
		s.log.Error("failed to load latest sync run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, errNoRuns)
		return
	}
	writeJSON(w, http.StatusOK, toSyncRunDTO(run))
}

func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	rep, err := s.catalog.Refresh(r.Context())
	if err != nil {
		s.log.Error("failed to refresh catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	_, builtAt := s.catalog.Experiments()
	writeJSON(w, http.StatusOK, map[string]any{
		"experiments": rep.RowsRead - rep.Dropped - rep.Duplicates,
		"dropped":     rep.Dropped,
		"builtAt":     builtAt,
	})
}
