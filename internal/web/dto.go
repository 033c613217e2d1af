package web

import (
	"time"

	"github.com/emiliopalmerini/crodash/internal/analytics"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

type experimentDTO struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StatusRaw     string   `json:"statusRaw"`
	Status        string   `json:"status"`
	DisplayStatus string   `json:"displayStatus"`
	Result        string   `json:"result"`
	StartDate     *string  `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	DateCreated   *string  `json:"dateCreated"`
	Markets       []string `json:"markets"`
	PageType      string   `json:"pageType"`
	Workstream    string   `json:"workstream"`
	URL           string   `json:"url"`
	IsOverdue     bool     `json:"isOverdue"`
	IsDelayed     bool     `json:"isDelayed"`
	IsCompleted   bool     `json:"isCompleted"`
}

func toExperimentDTO(e *domain.Experiment) experimentDTO {
	markets := e.Markets
	if markets == nil {
		markets = []string{}
	}
	return experimentDTO{
		ID:            e.ID,
		Code:          e.Code,
		Title:         e.Title,
		Description:   e.Description,
		StatusRaw:     e.StatusRaw,
		Status:        e.StatusClean,
		DisplayStatus: e.DisplayStatus,
		Result:        string(e.Result),
		StartDate:     formatDate(e.StartDate),
		EndDate:       formatDate(e.EndDate),
		DateCreated:   formatDate(e.DateCreated),
		Markets:       markets,
		PageType:      e.PageType,
		Workstream:    e.Workstream,
		URL:           e.URL,
		IsOverdue:     e.IsOverdue,
		IsDelayed:     e.IsDelayed,
		IsCompleted:   e.IsCompleted,
	}
}

func toExperimentDTOs(exps []domain.Experiment) []experimentDTO {
	out := make([]experimentDTO, len(exps))
	for i := range exps {
		out[i] = toExperimentDTO(&exps[i])
	}
	return out
}

type experimentsResponse struct {
	Experiments []experimentDTO `json:"experiments"`
	Count       int             `json:"count"`
	Range       rangeDTO        `json:"range"`
	BuiltAt     time.Time       `json:"builtAt"`
}

type rangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toRangeDTO(r domain.DateRange) rangeDTO {
	return rangeDTO{Start: r.Start.Format(normalize.ISODate), End: r.End.Format(normalize.ISODate)}
}

type planningColumnDTO struct {
	Phase       string          `json:"phase"`
	Count       int             `json:"count"`
	Experiments []experimentDTO `json:"experiments"`
}

func toPlanningDTO(b analytics.Board) []planningColumnDTO {
	out := make([]planningColumnDTO, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = planningColumnDTO{Phase: c.Phase, Count: len(c.Experiments), Experiments: toExperimentDTOs(c.Experiments)}
	}
	return out
}

type timelineItemDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Result    string `json:"result"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Estimated bool   `json:"estimated"`
}

type timelineGroupDTO struct {
	PageType string            `json:"pageType"`
	Items    []timelineItemDTO `json:"items"`
}

type timelineResponse struct {
	Window rangeDTO           `json:"window"`
	Groups []timelineGroupDTO `json:"groups"`
}

func toTimelineDTO(window domain.DateRange, groups []analytics.TimelineGroup) timelineResponse {
	resp := timelineResponse{Window: toRangeDTO(window), Groups: make([]timelineGroupDTO, len(groups))}
	for i, g := range groups {
		items := make([]timelineItemDTO, len(g.Items))
		for j, it := range g.Items {
			items[j] = timelineItemDTO{
				ID:        it.Experiment.ID,
				Title:     it.Experiment.Title,
				Status:    it.Experiment.DisplayStatus,
				Result:    string(it.Experiment.Result),
				Start:     it.Start.Format(normalize.ISODate),
				End:       it.End.Format(normalize.ISODate),
				Estimated: it.Estimated,
			}
		}
		resp.Groups[i] = timelineGroupDTO{PageType: g.PageType, Items: items}
	}
	return resp
}

type syncRunDTO struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	Sink           string     `json:"sink"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt"`
	RowsRead       int64      `json:"rowsRead"`
	RowsDropped    int64      `json:"rowsDropped"`
	Duplicates     int64      `json:"duplicates"`
	Records        int64      `json:"records"`
	Upserted       int64      `json:"upserted"`
	AmbiguousDates int64      `json:"ambiguousDates"`
	Error          *string    `json:"error"`
}

func toSyncRunDTO(r *domain.SyncRun) syncRunDTO {
	return syncRunDTO{
		ID:             r.ID,
		Source:         r.Source,
		Sink:           r.Sink,
		Status:         r.Status,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		RowsRead:       r.RowsRead,
		RowsDropped:    r.RowsDropped,
		Duplicates:     r.Duplicates,
		Records:        r.Records,
		Upserted:       r.Upserted,
		AmbiguousDates: r.AmbiguousDates,
		Error:          r.Error,
	}
}
