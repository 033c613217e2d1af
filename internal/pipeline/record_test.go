package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

func TestToRecord(t *testing.T) {
	e, ok := Builder{Now: testNow}.Build(live(Fields{
		FieldID:               "EXP1",
		FieldTitle:            "Hero",
		FieldStatus:           "3 Planning",
		FieldStartDate:        "02/26/2026",
		FieldResult:           "TBD",
		FieldMarketsPrimary:   "UK,DE",
		FieldMarketsSecondary: "FR",
	}))
	require.True(t, ok)

	updated := time.Date(2026, 1, 13, 8, 0, 0, 0, time.FixedZone("CET", 3600))
	rec := ToRecord(&e, updated)

	require.NotNil(t, rec.StartDate)
	assert.Equal(t, "2026-02-26", *rec.StartDate)
	assert.Nil(t, rec.EndDate)
	assert.Equal(t, "3 Planning", rec.StatusName)
	assert.Equal(t, "Unknown", rec.Result)
	assert.Equal(t, "UK, DE", rec.ELXMarkets)
	assert.Equal(t, "FR", rec.AEGMarkets)
	assert.Equal(t, "", rec.CategoryName)
	assert.Equal(t, "EXP1", rec.Code)
	assert.Equal(t, time.UTC, rec.UpdatedAt.Location())
}

func TestRecordRoundTrip(t *testing.T) {
	b := Builder{Now: testNow}
	orig, ok := b.Build(live(Fields{
		FieldID:               "EXP2",
		FieldCode:             "IDEA-2",
		FieldTitle:            "Sticky CTA",
		FieldDescription:      "<p>Keep the&nbsp;button visible</p>",
		FieldStatus:           "6 Running",
		FieldCategory:         "Conversion",
		FieldStartDate:        "12/01/2025",
		FieldEndDate:          "2026-01-05 10:00:00",
		FieldDateCreated:      "2025-11-20",
		FieldResult:           "winner!",
		FieldURL:              "https://example.com/exp2",
		FieldMarketsPrimary:   "UK, DE",
		FieldMarketsSecondary: "DE, IT",
		FieldPageType:         "Product Page",
	}))
	require.True(t, ok)

	rebuilt, ok := b.Build(FromRecord(ToRecord(&orig, testNow)))
	require.True(t, ok)

	if diff := cmp.Diff(orig, rebuilt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRoundTrip_Text(t *testing.T) {
	b := Builder{Now: testNow}

	tests := []struct {
		name   string
		fields Fields
	}{
		{
			name: "encoded brackets",
			fields: Fields{
				FieldID:          "EXP3",
				FieldTitle:       "CR &lt; 2% vs &gt; 3%",
				FieldDescription: "<p>Show badge when stock &lt; 5 and rating &gt; 4</p>",
			},
		},
		{
			name:   "missing category",
			fields: Fields{FieldID: "EXP4", FieldCode: "IDEA-4", FieldTitle: "No workstream"},
		},
		{
			name:   "code falls back to id",
			fields: Fields{FieldID: "42", FieldTitle: "Bare id"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig, ok := b.Build(live(tt.fields))
			require.True(t, ok)

			rebuilt, ok := b.Build(FromRecord(ToRecord(&orig, testNow)))
			require.True(t, ok)

			if diff := cmp.Diff(orig, rebuilt); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToRecord_KeepsSourceText(t *testing.T) {
	e, ok := Builder{Now: testNow}.Build(live(Fields{
		FieldID:    "EXP5",
		FieldCode:  "EXP-42",
		FieldTitle: "CR &lt; 2% vs &gt; 3%",
	}))
	require.True(t, ok)

	rec := ToRecord(&e, testNow)
	assert.Equal(t, "EXP-42", rec.Code)
	assert.Equal(t, "CR < 2% vs > 3%", rec.Title)
	assert.Equal(t, "", rec.CategoryName, "the default workstream is not persisted")

	rebuilt, ok := Builder{Now: testNow}.Build(FromRecord(rec))
	require.True(t, ok)
	assert.Equal(t, "EXP-42", rebuilt.Code)
	assert.Equal(t, "CR < 2% vs > 3%", rebuilt.Title)
	assert.Equal(t, domain.DefaultWorkstream, rebuilt.Workstream)
}

func TestStoredSourceRows(t *testing.T) {
	start := "2026-01-01"
	rows := StoredSourceRows([]domain.ExperimentRecord{{ID: "A", StartDate: &start}, {ID: "B"}})
	require.Len(t, rows, 2)
	assert.Equal(t, KindStored, rows[0].Kind())
	assert.Equal(t, start, rows[0].Value(FieldStartDate))
	assert.Equal(t, "", rows[1].Value(FieldStartDate))
}
