package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/emiliopalmerini/crodash/internal/adapters/turso"
	"github.com/emiliopalmerini/crodash/internal/domain"
)

func TestSyncRunRepository_Lifecycle(t *testing.T) {
	repo := turso.NewSyncRunRepository(testDB(t))
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no run yet, got %+v", latest)
	}

	started := time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)
	older := &domain.SyncRun{ID: "run-1", Source: "sheet", Sink: "turso", StartedAt: started.Add(-time.Hour), Status: domain.SyncSucceeded}
	run := &domain.SyncRun{ID: "run-2", Source: "ideation", Sink: "turso", StartedAt: started, Status: domain.SyncRunning}
	for _, r := range []*domain.SyncRun{older, run} {
		if err := repo.Start(ctx, r); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}

	finished := started.Add(90 * time.Second)
	msg := "upsert batch 2 failed"
	run.FinishedAt = &finished
	run.RowsRead = 250
	run.RowsDropped = 3
	run.Duplicates = 2
	run.Records = 245
	run.Upserted = 100
	run.AmbiguousDates = 7
	run.Status = domain.SyncFailed
	run.Error = &msg
	if err := repo.Finish(ctx, run); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got == nil || got.ID != "run-2" {
		t.Fatalf("expected run-2 as latest, got %+v", got)
	}
	if got.Status != domain.SyncFailed || got.Upserted != 100 || got.AmbiguousDates != 7 {
		t.Errorf("unexpected counters %+v", got)
	}
	if got.Error == nil || *got.Error != msg {
		t.Errorf("unexpected error %v", got.Error)
	}
	if got.Duration() != 90*time.Second {
		t.Errorf("expected 90s duration, got %s", got.Duration())
	}
}

func TestSyncRunRepository_FinishUnknown(t *testing.T) {
	repo := turso.NewSyncRunRepository(testDB(t))
	if err := repo.Finish(context.Background(), &domain.SyncRun{ID: "missing", Status: domain.SyncFailed}); err == nil {
		t.Error("expected error for unknown run")
	}
}
