package domain

import (
	"slices"
	"time"
)

// Result is the canonical outcome of an experiment.
type Result string

const (
	ResultWinner       Result = "Winner"
	ResultLoser        Result = "Loser"
	ResultInconclusive Result = "Inconclusive"
	ResultUnknown      Result = "Unknown"
)

// HasOutcome reports whether the experiment reached a verdict.
func (r Result) HasOutcome() bool {
	return r == ResultWinner || r == ResultLoser || r == ResultInconclusive
}

// Status names as they appear after the ordinal prefix is removed.
const (
	StatusPlanning    = "Planning"
	StatusDesign      = "Design"
	StatusDevelopment = "Development"
	StatusQA          = "QA"
	StatusSignOff     = "Sign off"
	StatusRunning     = "Running"
	StatusLive        = "Live"
	StatusAnalysis    = "Analysis"
	StatusCompleted   = "Completed"
)

// DefaultWorkstream is used when the source category is empty.
const DefaultWorkstream = "Unassigned"

// PlanningPhases are the kanban columns of the planning board, in order.
var PlanningPhases = []string{
	StatusPlanning,
	StatusDesign,
	StatusDevelopment,
	StatusQA,
	StatusSignOff,
	StatusRunning,
	StatusAnalysis,
	StatusCompleted,
}

// Experiment is the canonical CRO test record shared by every view.
type Experiment struct {
	ID          string
	Code        string
	Title       string
	Description string

	StatusRaw     string
	StatusClean   string
	DisplayStatus string

	Result Result

	StartDate   *time.Time
	EndDate     *time.Time
	DateCreated *time.Time

	MarketsPrimary   []string
	MarketsSecondary []string
	Markets          []string

	PageType   string
	Workstream string
	URL        string

	// CategoryRaw is the source category. Workstream falls back to
	// DefaultWorkstream when it is empty.
	CategoryRaw string

	IsOverdue   bool
	IsDelayed   bool
	IsCompleted bool
}

// HasSchedule reports whether both start and end dates are known.
func (e *Experiment) HasSchedule() bool {
	return e.StartDate != nil && e.EndDate != nil
}

// InMarket reports whether the experiment targets market m.
func (e *Experiment) InMarket(m string) bool {
	return slices.Contains(e.Markets, m)
}
