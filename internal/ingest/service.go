// Package ingest runs one full sync: fetch a snapshot, normalize it and
// upsert the resulting records in sequential batches.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
	"github.com/emiliopalmerini/crodash/internal/ports"
)

// DefaultBatchSize is the number of records submitted per upsert call.
const DefaultBatchSize = 100

// Snapshot roles.
const (
	RoleLive   = "live"
	RoleLegacy = "legacy"
)

var (
	// ErrFetch marks a failed source fetch. The run produced no output.
	ErrFetch = errors.New("fetch failed")
	// ErrUpsert marks a failed batch. Earlier batches stay committed.
	ErrUpsert = errors.New("upsert failed")
)

// BatchError reports which batch failed and how many were committed first.
type BatchError struct {
	Batch     int
	Committed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("failed to upsert batch %d (%d committed): %v", e.Batch, e.Committed, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func (e *BatchError) Is(target error) bool { return target == ErrUpsert }

// Deps are the collaborators of a Service. Runs, Metrics and Snapshots are
// optional.
type Deps struct {
	Store     ports.ExperimentStore
	Runs      ports.SyncRunRepository
	Metrics   ports.MetricsExporter
	Snapshots ports.SnapshotStore
	Logger    *zap.Logger
	Now       func() time.Time
	BatchSize int
	Policy    domain.StatusPolicy
}

type Service struct {
	store     ports.ExperimentStore
	runs      ports.SyncRunRepository
	metrics   ports.MetricsExporter
	snapshots ports.SnapshotStore
	log       *zap.Logger
	now       func() time.Time
	batchSize int
	policy    domain.StatusPolicy
}

func NewService(d Deps) *Service {
	s := &Service{
		store:     d.Store,
		runs:      d.Runs,
		metrics:   d.Metrics,
		snapshots: d.Snapshots,
		log:       d.Logger,
		now:       d.Now,
		batchSize: d.BatchSize,
		policy:    d.Policy,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	return s
}

// Request selects the sources and sink of one run.
type Request struct {
	Live   ports.RowSource
	Legacy ports.RowSource
	// Sink names the store in the ledger.
	Sink   string
	DryRun bool
}

// Run executes one sync. The returned run is populated even when err is
// non-nil, so callers can report partial progress.
func (s *Service) Run(ctx context.Context, req Request) (*domain.SyncRun, error) {
	if req.Live == nil {
		return nil, errors.New("no live source configured")
	}

	now := s.now()
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Source:    req.Live.Name(),
		Sink:      req.Sink,
		StartedAt: now.UTC(),
		Status:    domain.SyncRunning,
	}
	log := s.log.With(zap.String("run_id", run.ID), zap.String("source", run.Source), zap.String("sink", run.Sink))
	log.Info("sync started", zap.Bool("dry_run", req.DryRun))

	if s.runs != nil && !req.DryRun {
		if err := s.runs.Start(ctx, run); err != nil {
			return run, fmt.Errorf("failed to record sync run: %w", err)
		}
	}

	err := s.execute(ctx, log, run, req, now)
	return run, s.finish(ctx, log, run, req, err)
}

func (s *Service) execute(ctx context.Context, log *zap.Logger, run *domain.SyncRun, req Request, now time.Time) error {
	live, err := s.fetch(ctx, log, run.ID, RoleLive, req.Live)
	if err != nil {
		return err
	}

	var legacy *pipeline.LegacyIndex
	if req.Legacy != nil {
		rows, err := s.fetch(ctx, log, run.ID, RoleLegacy, req.Legacy)
		if err != nil {
			return err
		}
		legacy = pipeline.NewLegacyIndex(pipeline.LegacyRows(rows))
		log.Info("legacy index built", zap.Int("keys", legacy.Len()))
	}

	exps, rep := pipeline.Process(pipeline.LiveSourceRows(pipeline.LiveRows(live)), pipeline.Options{
		Now:          now,
		StatusPolicy: s.policy,
		Legacy:       legacy,
	})
	run.RowsRead = int64(rep.RowsRead)
	run.RowsDropped = int64(rep.Dropped)
	run.Duplicates = int64(rep.Duplicates)
	run.AmbiguousDates = int64(rep.AmbiguousDates)
	run.Records = int64(len(exps))

	log.Info("rows normalized",
		zap.Int("rows", rep.RowsRead),
		zap.Int("records", len(exps)),
		zap.Int("dropped", rep.Dropped),
		zap.Int("duplicates", rep.Duplicates),
		zap.Int("enriched", rep.Enriched),
		zap.Int("missing_start", rep.MissingStart),
		zap.Int("missing_end", rep.MissingEnd))
	if rep.AmbiguousDates > 0 {
		log.Warn("ambiguous slash dates read month-first", zap.Int("count", rep.AmbiguousDates))
	}

	if req.DryRun {
		log.Info("dry run, skipping upsert")
		return nil
	}
	return s.upsert(ctx, log, run, pipeline.ToRecords(exps, now))
}

func (s *Service) fetch(ctx context.Context, log *zap.Logger, runID, role string, src ports.RowSource) ([]pipeline.Fields, error) {
	rows, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch %s rows from %s: %w", ErrFetch, role, src.Name(), err)
	}
	log.Info("rows fetched", zap.String("role", role), zap.String("from", src.Name()), zap.Int("rows", len(rows)))

	if s.snapshots != nil {
		if path, err := s.snapshots.Store(ctx, runID, role, rows); err != nil {
			log.Warn("failed to archive snapshot", zap.String("role", role), zap.Error(err))
		} else {
			log.Debug("snapshot archived", zap.String("role", role), zap.String("path", path))
		}
	}
	return rows, nil
}

// upsert submits records batch by batch and stops at the first failure.
func (s *Service) upsert(ctx context.Context, log *zap.Logger, run *domain.SyncRun, records []domain.ExperimentRecord) error {
	committed := 0
	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		batch := records[start:end]

		if err := s.store.UpsertBatch(ctx, batch); err != nil {
			return &BatchError{Batch: committed + 1, Committed: committed, Err: err}
		}
		committed++
		run.Upserted += int64(len(batch))
		log.Debug("batch upserted", zap.Int("batch", committed), zap.Int("records", len(batch)))
	}
	return nil
}

func (s *Service) finish(ctx context.Context, log *zap.Logger, run *domain.SyncRun, req Request, runErr error) error {
	finished := s.now().UTC()
	run.FinishedAt = &finished
	run.Status = domain.SyncSucceeded
	if runErr != nil {
		run.Status = domain.SyncFailed
		msg := runErr.Error()
		run.Error = &msg
		log.Error("sync failed", zap.Int64("upserted", run.Upserted), zap.Error(runErr))
	} else {
		log.Info("sync finished",
			zap.Int64("records", run.Records),
			zap.Int64("upserted", run.Upserted),
			zap.Duration("duration", run.Duration()))
	}

	// Ledger and metrics are written even when the caller's context is done.
	ctx = context.WithoutCancel(ctx)

	if s.runs != nil && !req.DryRun {
		if err := s.runs.Finish(ctx, run); err != nil {
			if runErr == nil {
				return fmt.Errorf("failed to finish sync run: %w", err)
			}
			log.Warn("failed to finish sync run", zap.Error(err))
		}
	}
	if s.metrics != nil {
		if err := s.metrics.ExportSyncRun(ctx, run); err != nil {
			log.Warn("failed to export sync metrics", zap.Error(err))
		}
	}
	return runErr
}
