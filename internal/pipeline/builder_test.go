package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

var testNow = time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC)

func live(f Fields) LiveRow { return LiveRow{Fields: f} }

func TestBuilder_Build(t *testing.T) {
	b := Builder{Now: testNow}

	e, ok := b.Build(live(Fields{
		FieldID:               "  EXP1 ",
		FieldTitle:            "<b>Sticky</b> add to cart",
		FieldDescription:      "<p>Make the&nbsp;CTA sticky</p>",
		FieldStatus:           "6 Running",
		FieldCategory:         "PDP",
		FieldStartDate:        "2025-12-01 09:00:00",
		FieldEndDate:          "01/10/2026",
		FieldResult:           "looser",
		FieldMarketsPrimary:   "UK, DE",
		FieldMarketsSecondary: "DE, FR",
		FieldPageType:         " Product Page ",
	}))
	require.True(t, ok)

	assert.Equal(t, "EXP1", e.ID)
	assert.Equal(t, "EXP1", e.Code, "code falls back to id")
	assert.Equal(t, "Sticky add to cart", e.Title)
	assert.Equal(t, "Make the CTA sticky", e.Description)
	assert.Equal(t, "6 Running", e.StatusRaw)
	assert.Equal(t, domain.StatusRunning, e.StatusClean)
	assert.Equal(t, domain.StatusRunning, e.DisplayStatus)
	assert.Equal(t, domain.ResultLoser, e.Result)
	assert.Equal(t, "PDP", e.Workstream)
	assert.Equal(t, "Product Page", e.PageType)
	assert.Equal(t, []string{"UK", "DE", "FR"}, e.Markets)
	require.NotNil(t, e.StartDate)
	require.NotNil(t, e.EndDate)
	assert.Nil(t, e.DateCreated)
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), *e.EndDate)

	assert.True(t, e.IsOverdue)
	assert.False(t, e.IsDelayed)
	assert.True(t, e.IsCompleted)
}

func TestBuilder_Build_DropsRowWithoutID(t *testing.T) {
	b := Builder{Now: testNow}
	for _, id := range []string{"", "   "} {
		_, ok := b.Build(live(Fields{FieldID: id, FieldTitle: "orphan"}))
		assert.False(t, ok)
	}
}

func TestBuilder_Build_Defaults(t *testing.T) {
	e, ok := Builder{Now: testNow}.Build(live(Fields{FieldID: "7"}))
	require.True(t, ok)
	assert.Equal(t, UntitledTitle, e.Title)
	assert.Equal(t, domain.DefaultWorkstream, e.Workstream)
	assert.Equal(t, domain.ResultUnknown, e.Result)
	assert.Equal(t, "", e.StatusClean)
	assert.Empty(t, e.Markets)
	assert.False(t, e.IsOverdue || e.IsDelayed || e.IsCompleted)
}

func TestBuilder_Build_Flags(t *testing.T) {
	tests := []struct {
		name      string
		fields    Fields
		overdue   bool
		delayed   bool
		completed bool
	}{
		{
			name:   "running with future end",
			fields: Fields{FieldStatus: "Running", FieldEndDate: "2026-02-01"},
		},
		{
			name:    "planning with past start",
			fields:  Fields{FieldStatus: "1 Planning", FieldStartDate: "2026-01-01"},
			delayed: true,
		},
		{
			name:    "development with past start",
			fields:  Fields{FieldStatus: "Development", FieldStartDate: "12/20/2025"},
			delayed: true,
		},
		{
			name:   "design with past start",
			fields: Fields{FieldStatus: "Design", FieldStartDate: "2026-01-01"},
		},
		{
			name:      "completed without dates",
			fields:    Fields{FieldStatus: "9 Completed"},
			completed: true,
		},
		{
			name:      "analysis with past end",
			fields:    Fields{FieldStatus: "Analysis", FieldEndDate: "2026-01-02"},
			completed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fields[FieldID] = "X"
			e, ok := Builder{Now: testNow}.Build(live(tt.fields))
			require.True(t, ok)
			assert.Equal(t, tt.overdue, e.IsOverdue, "overdue")
			assert.Equal(t, tt.delayed, e.IsDelayed, "delayed")
			assert.Equal(t, tt.completed, e.IsCompleted, "completed")
		})
	}
}

func TestBuilder_Build_DateOverridesStatus(t *testing.T) {
	b := Builder{Now: testNow, StatusPolicy: domain.DateOverridesStatus}

	e, _ := b.Build(live(Fields{FieldID: "1", FieldStatus: "Running", FieldEndDate: "2026-01-01", FieldResult: "Winner"}))
	assert.Equal(t, domain.StatusCompleted, e.DisplayStatus)
	assert.Equal(t, domain.StatusRunning, e.StatusClean)

	e, _ = b.Build(live(Fields{FieldID: "2", FieldStatus: "Running", FieldEndDate: "2026-01-01"}))
	assert.Equal(t, domain.StatusAnalysis, e.DisplayStatus)
}
