package domain

import "time"

// ExperimentRecord is the flat attribute shape written to the external store.
// Dates are yyyy-MM-dd strings; nil means absent.
type ExperimentRecord struct {
	ID           string
	Code         string
	Title        string
	Description  string
	StatusName   string
	CategoryName string
	StartDate    *string
	EndDate      *string
	DateCreated  *string
	Result       string
	URL          string
	ELXMarkets   string
	AEGMarkets   string
	PageType     string
	UpdatedAt    time.Time
}

// SyncRun status values.
const (
	SyncRunning   = "running"
	SyncSucceeded = "succeeded"
	SyncFailed    = "failed"
)

// SyncRun is one ledger entry of the ingest service.
type SyncRun struct {
	ID             string
	Source         string
	Sink           string
	StartedAt      time.Time
	FinishedAt     *time.Time
	RowsRead       int64
	RowsDropped    int64
	Duplicates     int64
	Records        int64
	Upserted       int64
	AmbiguousDates int64
	Status         string
	Error          *string
}

// Duration returns the elapsed run time, or zero while running.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
