package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/analytics"
	"github.com/emiliopalmerini/crodash/internal/config"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

func TestDatabaseURL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := databaseURL(config.Database{URL: "libsql://example.turso.io"})
	require.NoError(t, err)
	assert.Equal(t, "libsql://example.turso.io", got)

	got, err = databaseURL(config.Database{})
	require.NoError(t, err)
	assert.Equal(t, "file:"+filepath.Join(dir, "crodash", "crodash.db"), got)
}

func TestTokenStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	f, err := tokenStore(config.Ideation{TokenPath: "/tmp/tok.json"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tok.json", f.Path)

	f, err = tokenStore(config.Ideation{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "crodash", "ideation_token.json"), f.Path)
}

func TestLiveSource(t *testing.T) {
	logger = zap.NewNop()
	m, err := pipeline.DefaultMapping()
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Config
		source  string
		want    string
		wantErr string
	}{
		{name: "sheet", cfg: config.Config{Sheet: config.Sheet{URL: "export.csv"}}, source: "sheet", want: "sheet"},
		{name: "sheet without url", source: "sheet", wantErr: "CRODASH_SHEET_URL"},
		{name: "ideation without base url", source: "ideation", wantErr: "CRODASH_IDEATION_BASE_URL"},
		{name: "unknown", source: "jira", wantErr: `unknown source "jira"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := liveSource(ctx, &tt.cfg, m, tt.source)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}

func TestLegacySource(t *testing.T) {
	m, err := pipeline.DefaultMapping()
	require.NoError(t, err)

	_, err = legacySource(&config.Config{}, m)
	assert.ErrorContains(t, err, "CRODASH_SHEET_LEGACY_URL")

	src, err := legacySource(&config.Config{Sheet: config.Sheet{LegacyURL: "legacy.csv"}}, m)
	require.NoError(t, err)
	assert.Equal(t, "legacy-sheet", src.Name())
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestReportWindow(t *testing.T) {
	now := time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC)

	w, err := reportWindow(now, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRange(now), w)

	w, err = reportWindow(now, "2025-01-01", "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01..2025-06-30", w.String())

	_, err = reportWindow(now, "yesterday", "")
	assert.ErrorContains(t, err, "invalid --from")

	_, err = reportWindow(now, "2025-06-30", "2025-01-01")
	assert.ErrorContains(t, err, "is after end")
}

func TestRenderReport(t *testing.T) {
	started := time.Date(2026, 1, 12, 8, 0, 0, 0, time.UTC)
	msg := "upsert failed"
	out := renderReport(reportData{
		Window: domain.DateRange{
			Start: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		Overview: analytics.OverviewStats{
			Total: 4, Completed: 3, Winners: 2, WinRate: 67,
			Workstreams: []analytics.Count{{Name: "Conversion", Value: 3}},
		},
		Quality:  analytics.QualityReport{MissingEnd: 2, WinnersCarriedOver: []string{"EXP-9"}},
		Pipeline: pipeline.Report{Dropped: 1, AmbiguousDates: 2},
		Latest: &domain.SyncRun{
			ID: "run-1", Source: "sheet", Sink: "turso", StartedAt: started,
			Records: 10, Upserted: 5, Status: domain.SyncFailed, Error: &msg,
		},
	})

	assert.Contains(t, out, "2025-03-14..2026-03-14")
	assert.Contains(t, out, "67%")
	assert.Contains(t, out, "Conversion")
	assert.Contains(t, out, "EXP-9")
	assert.Contains(t, out, "2 dates")
	assert.Contains(t, out, "sheet -> turso")
	assert.Contains(t, out, "5 of 10")
	assert.Contains(t, out, "upsert failed")
	assert.False(t, strings.Contains(out, "Page types"), "empty distributions are omitted")
}

func TestRenderReport_NoRuns(t *testing.T) {
	out := renderReport(reportData{})
	assert.Contains(t, out, "no runs recorded")
}
