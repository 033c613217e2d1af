package pipeline

import (
	"strings"

	"github.com/emiliopalmerini/crodash/internal/normalize"
)

// enrichmentFields are the fields where a legacy value beats the live one.
var enrichmentFields = []Field{FieldResult, FieldPageType, FieldStartDate, FieldEndDate}

// LegacyIndex resolves legacy enrichment by either the legacy row ID or the
// business code, so both identifier styles reach the same values.
type LegacyIndex struct {
	entries map[string]Fields
}

// NewLegacyIndex indexes rows. Later rows overwrite earlier ones on a key
// collision.
func NewLegacyIndex(rows []LegacyRow) *LegacyIndex {
	ix := &LegacyIndex{entries: make(map[string]Fields)}
	for _, row := range rows {
		enrichment := make(Fields, len(enrichmentFields))
		for _, f := range enrichmentFields {
			v := strings.TrimSpace(row.Value(f))
			if v == "" {
				continue
			}
			if f == FieldPageType && normalize.LooksLikeURL(v) {
				continue
			}
			enrichment[f] = v
		}
		if len(enrichment) == 0 {
			continue
		}
		for _, key := range []string{row.Value(FieldID), row.Value(FieldCode)} {
			if key = strings.TrimSpace(key); key != "" {
				ix.entries[key] = enrichment
			}
		}
	}
	return ix
}

// Len returns the number of distinct keys.
func (ix *LegacyIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Lookup returns the enrichment stored under key.
func (ix *LegacyIndex) Lookup(key string) (Fields, bool) {
	if ix == nil {
		return nil, false
	}
	f, ok := ix.entries[strings.TrimSpace(key)]
	return f, ok
}

// Enrich overlays legacy values onto row. Only result, page type, start date
// and end date are replaced; every other field keeps its live value. The
// boolean reports whether an entry matched.
func (ix *LegacyIndex) Enrich(row LiveRow) (LiveRow, bool) {
	for _, key := range []string{row.Value(FieldID), row.Value(FieldCode)} {
		if enrichment, ok := ix.Lookup(key); ok {
			return row.with(enrichment), true
		}
	}
	return row, false
}
