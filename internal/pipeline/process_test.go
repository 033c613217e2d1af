package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

func TestProcess_LastSeenWins(t *testing.T) {
	rows := []SourceRow{
		live(Fields{FieldID: "X", FieldTitle: "first"}),
		live(Fields{FieldID: "Y", FieldTitle: "other"}),
		live(Fields{FieldID: "X", FieldTitle: "second"}),
		live(Fields{FieldID: "", FieldTitle: "no id"}),
	}

	exps, rep := Process(rows, Options{Now: testNow})

	require.Len(t, exps, 2)
	assert.Equal(t, "X", exps[0].ID)
	assert.Equal(t, "second", exps[0].Title)
	assert.Equal(t, "Y", exps[1].ID)
	assert.Equal(t, Report{RowsRead: 4, Dropped: 1, Duplicates: 1, MissingStart: 2, MissingEnd: 2}, rep)
}

func TestProcess_LegacyEnrichment(t *testing.T) {
	legacy := NewLegacyIndex([]LegacyRow{{Fields: Fields{
		FieldID:        "UUID-9",
		FieldCode:      "EXP1",
		FieldTitle:     "Old title",
		FieldStatus:    "Completed",
		FieldResult:    "Winner",
		FieldPageType:  "Product Page",
		FieldStartDate: "2025-03-01",
	}}})

	rows := []SourceRow{live(Fields{
		FieldID:       "EXP1",
		FieldTitle:    "Fresh title",
		FieldStatus:   "Running",
		FieldResult:   "Loser",
		FieldPageType: "Homepage",
	})}

	exps, rep := Process(rows, Options{Now: testNow, Legacy: legacy})
	require.Len(t, exps, 1)
	e := exps[0]

	assert.Equal(t, domain.ResultWinner, e.Result)
	assert.Equal(t, "Product Page", e.PageType)
	require.NotNil(t, e.StartDate)
	assert.Equal(t, "2025-03-01", e.StartDate.Format("2006-01-02"))

	assert.Equal(t, "Fresh title", e.Title)
	assert.Equal(t, domain.StatusRunning, e.StatusClean)
	assert.Equal(t, 1, rep.Enriched)

	_, ok := legacy.Lookup("UUID-9")
	assert.True(t, ok, "legacy id must resolve to the same enrichment")
}

func TestProcess_AmbiguousDates(t *testing.T) {
	rows := []SourceRow{
		live(Fields{FieldID: "A", FieldStartDate: "02/03/2026", FieldEndDate: "04/05/2026"}),
		live(Fields{FieldID: "B", FieldStartDate: "02/13/2026", FieldEndDate: "2026-03-01"}),
	}
	_, rep := Process(rows, Options{Now: testNow})
	assert.Equal(t, 2, rep.AmbiguousDates)
	assert.Zero(t, rep.MissingStart)
}

func TestProcess_StoredRowsAreNotEnriched(t *testing.T) {
	legacy := NewLegacyIndex([]LegacyRow{{Fields: Fields{FieldID: "S1", FieldResult: "Winner"}}})
	exps, rep := Process([]SourceRow{StoredRow{Fields: Fields{FieldID: "S1", FieldResult: "Loser"}}}, Options{Now: testNow, Legacy: legacy})
	require.Len(t, exps, 1)
	assert.Equal(t, domain.ResultLoser, exps[0].Result)
	assert.Zero(t, rep.Enriched)
}
