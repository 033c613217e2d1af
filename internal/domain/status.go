package domain

import (
	"fmt"
	"time"
)

// StatusPolicy selects how DisplayStatus is derived.
type StatusPolicy int

const (
	// StatusIsTruth displays the cleaned source status unchanged.
	StatusIsTruth StatusPolicy = iota
	// DateOverridesStatus moves a Running record whose end date has passed
	// to Completed (when it has an outcome) or Analysis.
	DateOverridesStatus
)

// ParseStatusPolicy accepts "status" (or empty) and "date".
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch s {
	case "", "status":
		return StatusIsTruth, nil
	case "date":
		return DateOverridesStatus, nil
	default:
		return StatusIsTruth, fmt.Errorf("unknown status policy %q", s)
	}
}

func (p StatusPolicy) String() string {
	if p == DateOverridesStatus {
		return "date"
	}
	return "status"
}

// DisplayStatus derives the UI-facing status for e at instant now.
func (p StatusPolicy) DisplayStatus(e *Experiment, now time.Time) string {
	if p != DateOverridesStatus {
		return e.StatusClean
	}
	if e.StatusClean != StatusRunning || e.EndDate == nil || !e.EndDate.Before(now) {
		return e.StatusClean
	}
	if e.Result.HasOutcome() {
		return StatusCompleted
	}
	return StatusAnalysis
}
