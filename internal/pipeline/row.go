package pipeline

import "maps"

// Field is a logical column of the experiment schema, independent of how a
// given source names it.
type Field string

const (
	FieldID               Field = "id"
	FieldCode             Field = "code"
	FieldTitle            Field = "title"
	FieldDescription      Field = "description"
	FieldStatus           Field = "status"
	FieldCategory         Field = "category"
	FieldStartDate        Field = "start_date"
	FieldEndDate          Field = "end_date"
	FieldDateCreated      Field = "date_created"
	FieldResult           Field = "result"
	FieldURL              Field = "url"
	FieldMarketsPrimary   Field = "markets_primary"
	FieldMarketsSecondary Field = "markets_secondary"
	FieldPageType         Field = "page_type"
)

// KnownFields lists every logical field a mapping may bind.
var KnownFields = []Field{
	FieldID, FieldCode, FieldTitle, FieldDescription, FieldStatus, FieldCategory,
	FieldStartDate, FieldEndDate, FieldDateCreated, FieldResult, FieldURL,
	FieldMarketsPrimary, FieldMarketsSecondary, FieldPageType,
}

// Fields holds the raw string values of one source row. Missing keys and
// empty strings are equivalent.
type Fields map[Field]string

// SourceKind tags where a row came from.
type SourceKind string

const (
	KindLive   SourceKind = "live"
	KindLegacy SourceKind = "legacy"
	KindStored SourceKind = "stored"
)

// SourceRow is a raw row of one of the known origins. The set of
// implementations is closed: LiveRow, LegacyRow and StoredRow.
type SourceRow interface {
	Kind() SourceKind
	Value(f Field) string
	sourceRow()
}

// LiveRow comes from the current system of record (the spreadsheet export or
// the ideation platform API).
type LiveRow struct{ Fields Fields }

// LegacyRow comes from the older spreadsheet and only contributes enrichment.
type LegacyRow struct{ Fields Fields }

// StoredRow is a record read back from the experiment store.
type StoredRow struct{ Fields Fields }

func (LiveRow) Kind() SourceKind   { return KindLive }
func (LegacyRow) Kind() SourceKind { return KindLegacy }
func (StoredRow) Kind() SourceKind { return KindStored }

func (r LiveRow) Value(f Field) string   { return r.Fields[f] }
func (r LegacyRow) Value(f Field) string { return r.Fields[f] }
func (r StoredRow) Value(f Field) string { return r.Fields[f] }

func (LiveRow) sourceRow()   {}
func (LegacyRow) sourceRow() {}
func (StoredRow) sourceRow() {}

// LiveRows wraps projected fields as live rows.
func LiveRows(in []Fields) []LiveRow {
	out := make([]LiveRow, len(in))
	for i, f := range in {
		out[i] = LiveRow{Fields: f}
	}
	return out
}

// LegacyRows wraps projected fields as legacy rows.
func LegacyRows(in []Fields) []LegacyRow {
	out := make([]LegacyRow, len(in))
	for i, f := range in {
		out[i] = LegacyRow{Fields: f}
	}
	return out
}

func (r LiveRow) with(overrides Fields) LiveRow {
	merged := maps.Clone(r.Fields)
	if merged == nil {
		merged = make(Fields, len(overrides))
	}
	maps.Copy(merged, overrides)
	return LiveRow{Fields: merged}
}
