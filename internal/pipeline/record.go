package pipeline

import (
	"strings"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/normalize"
)

const marketSeparator = ", "

// ToRecord projects e onto the persisted attribute shape.
func ToRecord(e *domain.Experiment, updatedAt time.Time) domain.ExperimentRecord {
	return domain.ExperimentRecord{
		ID:           e.ID,
		Code:         e.Code,
		Title:        e.Title,
		Description:  e.Description,
		StatusName:   e.StatusRaw,
		CategoryName: e.CategoryRaw,
		StartDate:    normalize.FormatDate(e.StartDate),
		EndDate:      normalize.FormatDate(e.EndDate),
		DateCreated:  normalize.FormatDate(e.DateCreated),
		Result:       string(e.Result),
		URL:          e.URL,
		ELXMarkets:   strings.Join(e.MarketsPrimary, marketSeparator),
		AEGMarkets:   strings.Join(e.MarketsSecondary, marketSeparator),
		PageType:     e.PageType,
		UpdatedAt:    updatedAt.UTC(),
	}
}

// ToRecords projects a whole collection with a shared timestamp.
func ToRecords(exps []domain.Experiment, updatedAt time.Time) []domain.ExperimentRecord {
	out := make([]domain.ExperimentRecord, len(exps))
	for i := range exps {
		out[i] = ToRecord(&exps[i], updatedAt)
	}
	return out
}

// FromRecord turns a stored record back into a row so the dashboard rebuilds
// experiments through the same builder as the sync.
func FromRecord(rec domain.ExperimentRecord) StoredRow {
	f := Fields{
		FieldID:               rec.ID,
		FieldCode:             rec.Code,
		FieldTitle:            rec.Title,
		FieldDescription:      rec.Description,
		FieldStatus:           rec.StatusName,
		FieldCategory:         rec.CategoryName,
		FieldResult:           rec.Result,
		FieldURL:              rec.URL,
		FieldMarketsPrimary:   rec.ELXMarkets,
		FieldMarketsSecondary: rec.AEGMarkets,
		FieldPageType:         rec.PageType,
	}
	for field, v := range map[Field]*string{
		FieldStartDate:   rec.StartDate,
		FieldEndDate:     rec.EndDate,
		FieldDateCreated: rec.DateCreated,
	} {
		if v != nil {
			f[field] = *v
		}
	}
	return StoredRow{Fields: f}
}

// StoredSourceRows converts stored records into pipeline input.
func StoredSourceRows(recs []domain.ExperimentRecord) []SourceRow {
	out := make([]SourceRow, len(recs))
	for i, r := range recs {
		out[i] = FromRecord(r)
	}
	return out
}
