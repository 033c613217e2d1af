package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
	"github.com/emiliopalmerini/crodash/internal/ports"
)

// Catalog holds the experiment collection every view reads. It is rebuilt in
// full from the store on Refresh; readers never see a partial collection.
type Catalog struct {
	store  ports.ExperimentStore
	policy domain.StatusPolicy
	now    func() time.Time
	log    *zap.Logger

	mu      sync.RWMutex
	exps    []domain.Experiment
	builtAt time.Time
	report  pipeline.Report
}

func NewCatalog(store ports.ExperimentStore, policy domain.StatusPolicy, now func() time.Time, log *zap.Logger) *Catalog {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{store: store, policy: policy, now: now, log: log}
}

// Refresh lists the store and rebuilds every experiment against one instant.
func (c *Catalog) Refresh(ctx context.Context) (pipeline.Report, error) {
	recs, err := c.store.List(ctx)
	if err != nil {
		return pipeline.Report{}, fmt.Errorf("failed to list experiments: %w", err)
	}

	now := c.now()
	exps, rep := pipeline.Process(pipeline.StoredSourceRows(recs), pipeline.Options{
		Now:          now,
		StatusPolicy: c.policy,
	})

	c.mu.Lock()
	c.exps, c.builtAt, c.report = exps, now, rep
	c.mu.Unlock()

	c.log.Info("catalog refreshed", zap.Int("experiments", len(exps)), zap.Int("dropped", rep.Dropped))
	return rep, nil
}

// Experiments returns the current collection and the instant it was built
// at. The slice must not be modified.
func (c *Catalog) Experiments() ([]domain.Experiment, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exps, c.builtAt
}
