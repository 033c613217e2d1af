package domain

import (
	"fmt"
	"time"
)

// Default window of the dashboard date control, relative to today.
const (
	DefaultLookbackDays  = 305
	DefaultLookaheadDays = 60
)

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DefaultRange returns [now-305d, now+60d].
func DefaultRange(now time.Time) DateRange {
	return DateRange{
		Start: now.AddDate(0, 0, -DefaultLookbackDays),
		End:   now.AddDate(0, 0, DefaultLookaheadDays),
	}
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

// MissingDatePolicy decides how InRange treats records without a full schedule.
type MissingDatePolicy int

const (
	// IncludeMissing keeps unscheduled records visible in every range.
	IncludeMissing MissingDatePolicy = iota
	// ExcludeMissing drops unscheduled records from range-filtered views.
	ExcludeMissing
)

// ParseMissingDatePolicy accepts "include" (or empty) and "exclude".
func ParseMissingDatePolicy(s string) (MissingDatePolicy, error) {
	switch s {
	case "", "include":
		return IncludeMissing, nil
	case "exclude":
		return ExcludeMissing, nil
	default:
		return IncludeMissing, fmt.Errorf("unknown missing-date policy %q", s)
	}
}

func (p MissingDatePolicy) String() string {
	if p == ExcludeMissing {
		return "exclude"
	}
	return "include"
}

// InRange reports whether the experiment's [start, end] overlaps r.
// Records missing either date are decided by policy alone.
func InRange(e *Experiment, r DateRange, policy MissingDatePolicy) bool {
	if !e.HasSchedule() {
		return policy == IncludeMissing
	}
	return !e.StartDate.After(r.End) && !e.EndDate.Before(r.Start)
}

// StartsInRange reports whether the experiment starts inside r.
// A record without a start date never starts in a range.
func StartsInRange(e *Experiment, r DateRange) bool {
	if e.StartDate == nil {
		return false
	}
	return !e.StartDate.Before(r.Start) && !e.StartDate.After(r.End)
}
