package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

const (
	// DefaultTimelineMonths is how many months the Gantt view spans.
	DefaultTimelineMonths = 4
	// assumedDurationDays fills in a missing start or end date.
	assumedDurationDays = 14
	otherGroup          = "Other"
)

var preferredGroups = []string{"Homepage", "Product Page", "Product Listing Page", "Checkout", "Landing Page"}

// TimelineItem is one Gantt bar. Estimated is set when one bound was derived.
type TimelineItem struct {
	Experiment domain.Experiment
	Start      time.Time
	End        time.Time
	Estimated  bool
}

// TimelineGroup is one Gantt swimlane.
type TimelineGroup struct {
	PageType string
	Items    []TimelineItem
}

// TimelineWindow spans whole calendar months starting at anchor's month.
func TimelineWindow(anchor time.Time, months int) domain.DateRange {
	if months < 1 {
		months = DefaultTimelineMonths
	}
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, months, -1)
	return domain.DateRange{Start: start, End: end}
}

// Timeline lays experiments out by page type. A missing bound is assumed
// fourteen days from the known one; experiments with neither date are
// skipped, as are bars outside window.
func Timeline(exps []domain.Experiment, window domain.DateRange) []TimelineGroup {
	groups := map[string][]TimelineItem{}

	for _, e := range exps {
		item := TimelineItem{Experiment: e}
		switch {
		case e.StartDate == nil && e.EndDate == nil:
			continue
		case e.StartDate == nil:
			item.End = *e.EndDate
			item.Start = item.End.AddDate(0, 0, -assumedDurationDays)
			item.Estimated = true
		case e.EndDate == nil:
			item.Start = *e.StartDate
			item.End = item.Start.AddDate(0, 0, assumedDurationDays)
			item.Estimated = true
		default:
			item.Start, item.End = *e.StartDate, *e.EndDate
		}

		if item.End.Before(window.Start) || item.Start.After(window.End) {
			continue
		}

		key := e.PageType
		if key == "" {
			key = otherGroup
		}
		groups[key] = append(groups[key], item)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareGroups)

	out := make([]TimelineGroup, 0, len(keys))
	for _, k := range keys {
		items := groups[k]
		slices.SortStableFunc(items, func(a, b TimelineItem) int { return a.Start.Compare(b.Start) })
		out = append(out, TimelineGroup{PageType: k, Items: items})
	}
	return out
}

func compareGroups(a, b string) int {
	ia, ib := slices.Index(preferredGroups, a), slices.Index(preferredGroups, b)
	switch {
	case ia >= 0 && ib >= 0:
		return cmp.Compare(ia, ib)
	case ia >= 0:
		return -1
	case ib >= 0:
		return 1
	}
	return cmp.Compare(a, b)
}
