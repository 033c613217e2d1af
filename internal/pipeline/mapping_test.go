package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapping_Sheet(t *testing.T) {
	m, err := DefaultMapping()
	require.NoError(t, err)

	src, err := m.Source(SourceSheet)
	require.NoError(t, err)

	got := src.FromRecord(map[string]string{
		"ID":              "12",
		"Idea Code":       "",
		"Experiment Name": "Hero banner",
		"Status Name":     "3 Planning",
		"ELX markets":     "UK, DE",
		"Unrelated":       "ignored",
	})

	assert.Equal(t, Fields{
		FieldID:             "12",
		FieldCode:           "12",
		FieldTitle:          "Hero banner",
		FieldStatus:         "3 Planning",
		FieldMarketsPrimary: "UK, DE",
	}, got)
}

func TestDefaultMapping_Ideation(t *testing.T) {
	m, err := DefaultMapping()
	require.NoError(t, err)
	src, err := m.Source(SourceIdeation)
	require.NoError(t, err)

	got := src.FromJSON(map[string]any{
		"idea_code":   "EXP1",
		"title":       "Checkout trust badges",
		"status":      map[string]any{"name": "6 Running"},
		"category":    map[string]any{"name": nil},
		"page_count":  float64(3),
		"description": "<p>Badges</p>",
		"custom_questions": []any{
			map[string]any{"question": "Planned Start Date", "answer": "2026-01-02"},
			map[string]any{"question": "ELECTROLUX MARKET(S)", "answer": []any{"UK", "DE"}},
			map[string]any{"question": "Result", "answer": "Winner"},
			"not an object",
		},
	})

	assert.Equal(t, Fields{
		FieldID:             "EXP1",
		FieldCode:           "EXP1",
		FieldTitle:          "Checkout trust badges",
		FieldDescription:    "<p>Badges</p>",
		FieldStatus:         "6 Running",
		FieldStartDate:      "2026-01-02",
		FieldMarketsPrimary: "UK, DE",
		FieldResult:         "Winner",
	}, got)
}

func TestParseMapping_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong version", "version: 2\nsources: {}\n"},
		{"missing id", "version: 1\nsources:\n  s:\n    fields:\n      title: {column: T}\n"},
		{"unknown field", "version: 1\nsources:\n  s:\n    fields:\n      id: {column: ID}\n      colour: {column: C}\n"},
		{"two forms", "version: 1\nsources:\n  s:\n    fields:\n      id: {column: ID, path: id}\n"},
		{"no form", "version: 1\nsources:\n  s:\n    fields:\n      id: {}\n"},
		{"question without list", "version: 1\nsources:\n  s:\n    fields:\n      id: {question: id}\n"},
		{"not yaml", "version: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMapping_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	doc := "version: 1\nsources:\n  sheet:\n    fields:\n      id: {column: \"Row\"}\n      title: {column: \"Name\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	m, err := LoadMapping(path)
	require.NoError(t, err)
	src, err := m.Source(SourceSheet)
	require.NoError(t, err)
	assert.Equal(t, Fields{FieldID: "5", FieldTitle: "Renamed"}, src.FromRecord(map[string]string{"Row": "5", "Name": "Renamed"}))

	_, err = m.Source(SourceIdeation)
	assert.Error(t, err)

	_, err = LoadMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
