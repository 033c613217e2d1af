package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

// UntitledTitle replaces an empty source title.
const UntitledTitle = "Untitled"

var delayedStatuses = []string{domain.StatusPlanning, domain.StatusDevelopment}

// Builder turns source rows into canonical experiments. Now is captured once
// per run by the caller so every derived flag in a run uses the same instant.
type Builder struct {
	Now          time.Time
	StatusPolicy domain.StatusPolicy
}

// Diagnostics describes data-quality observations made while building one row.
type Diagnostics struct {
	AmbiguousDates int
	MissingStart   bool
	MissingEnd     bool
}

// Build converts row into an Experiment. The boolean is false when the row
// has no usable identifier and must be skipped.
func (b Builder) Build(row SourceRow) (domain.Experiment, bool) {
	e, _, ok := b.build(row)
	return e, ok
}

func (b Builder) build(row SourceRow) (domain.Experiment, Diagnostics, bool) {
	var diag Diagnostics

	id := strings.TrimSpace(row.Value(FieldID))
	if id == "" {
		return domain.Experiment{}, diag, false
	}

	// Stored text was cleaned on the way in; decoded brackets must survive.
	text := normalize.StripHTML
	if row.Kind() == KindStored {
		text = func(s string) string { return s }
	}

	e := domain.Experiment{
		ID:          id,
		Code:        firstNonEmpty(row.Value(FieldCode), id),
		Title:       firstNonEmpty(text(row.Value(FieldTitle)), UntitledTitle),
		Description: strings.TrimSpace(text(row.Value(FieldDescription))),
		StatusRaw:   strings.TrimSpace(row.Value(FieldStatus)),
		Result:      normalize.CanonicalizeResult(row.Value(FieldResult)),
		PageType:    strings.TrimSpace(row.Value(FieldPageType)),
		CategoryRaw: strings.TrimSpace(row.Value(FieldCategory)),
		URL:         strings.TrimSpace(row.Value(FieldURL)),
	}
	e.StatusClean = normalize.CleanStatus(e.StatusRaw)
	e.Workstream = firstNonEmpty(e.CategoryRaw, domain.DefaultWorkstream)

	e.StartDate = parseInto(row.Value(FieldStartDate), &diag)
	e.EndDate = parseInto(row.Value(FieldEndDate), &diag)
	e.DateCreated = parseInto(row.Value(FieldDateCreated), &diag)
	diag.MissingStart = e.StartDate == nil
	diag.MissingEnd = e.EndDate == nil

	e.MarketsPrimary = normalize.SplitMarkets(row.Value(FieldMarketsPrimary))
	e.MarketsSecondary = normalize.SplitMarkets(row.Value(FieldMarketsSecondary))
	e.Markets = normalize.MergeMarkets(e.MarketsPrimary, e.MarketsSecondary)

	endPassed := e.EndDate != nil && e.EndDate.Before(b.Now)
	e.IsOverdue = e.StatusClean == domain.StatusRunning && endPassed
	e.IsDelayed = slices.Contains(delayedStatuses, e.StatusClean) &&
		e.StartDate != nil && e.StartDate.Before(b.Now)
	e.IsCompleted = e.StatusClean == domain.StatusCompleted || endPassed

	e.DisplayStatus = b.StatusPolicy.DisplayStatus(&e, b.Now)

	return e, diag, true
}

func parseInto(s string, diag *Diagnostics) *time.Time {
	p, ok := normalize.ParseDateDetailed(s)
	if !ok {
		return nil
	}
	if p.Ambiguous {
		diag.AmbiguousDates++
	}
	t := p.Time
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
