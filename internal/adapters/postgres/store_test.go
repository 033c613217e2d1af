package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

func TestQueueUpserts(t *testing.T) {
	start := "2026-01-02"
	updated := time.Date(2026, 1, 13, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	b := queueUpserts([]domain.ExperimentRecord{
		{ID: "EXP1", Code: "EXP-1", Title: "Hero", StartDate: &start, Result: "Winner", UpdatedAt: updated},
		{ID: "EXP2", Title: "Badges", Result: "Unknown", UpdatedAt: updated},
	})

	require.Equal(t, 2, b.Len())
	q := b.QueuedQueries[0]
	assert.Contains(t, q.SQL, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, q.SQL, "code = EXCLUDED.code")
	require.Len(t, q.Arguments, 15)
	assert.Equal(t, "EXP1", q.Arguments[0])
	assert.Equal(t, "EXP-1", q.Arguments[1])
	assert.Equal(t, &start, q.Arguments[6])
	assert.Equal(t, time.UTC, q.Arguments[14].(time.Time).Location())
	assert.Nil(t, b.QueuedQueries[1].Arguments[6].(*string))
}

// TestStore_Integration runs against a real database when one is configured.
func TestStore_Integration(t *testing.T) {
	url := os.Getenv("CRODASH_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("CRODASH_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(ctx))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpsertBatch(ctx, []domain.ExperimentRecord{{ID: "it-EXP1", Title: "first", Result: "Unknown", UpdatedAt: now}}))
	require.NoError(t, s.UpsertBatch(ctx, []domain.ExperimentRecord{{ID: "it-EXP1", Code: "IT-1", Title: "second", Result: "Winner", UpdatedAt: now}}))

	records, err := s.List(ctx)
	require.NoError(t, err)
	var found bool
	for _, r := range records {
		if r.ID == "it-EXP1" {
			found = true
			assert.Equal(t, "second", r.Title)
			assert.Equal(t, "IT-1", r.Code)
		}
	}
	assert.True(t, found)
}
