package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

// MockExperimentStore is a mock implementation of ExperimentStore for testing.
type MockExperimentStore struct {
	UpsertBatchFunc func(ctx context.Context, records []domain.ExperimentRecord) error
	ListFunc        func(ctx context.Context) ([]domain.ExperimentRecord, error)
}

func (m *MockExperimentStore) UpsertBatch(ctx context.Context, records []domain.ExperimentRecord) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, records)
	}
	return nil
}

func (m *MockExperimentStore) List(ctx context.Context) ([]domain.ExperimentRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.ExperimentRecord{}, nil
}

// MockSyncRunRepository is a mock implementation of SyncRunRepository for testing.
type MockSyncRunRepository struct {
	StartFunc  func(ctx context.Context, run *domain.SyncRun) error
	FinishFunc func(ctx context.Context, run *domain.SyncRun) error
	LatestFunc func(ctx context.Context) (*domain.SyncRun, error)
}

func (m *MockSyncRunRepository) Start(ctx context.Context, run *domain.SyncRun) error {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, run)
	}
	return nil
}

func (m *MockSyncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, run)
	}
	return nil
}

func (m *MockSyncRunRepository) Latest(ctx context.Context) (*domain.SyncRun, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, nil
}

// MockRowSource is a mock implementation of RowSource for testing.
type MockRowSource struct {
	NameValue string
	FetchFunc func(ctx context.Context) ([]pipeline.Fields, error)
}

func (m *MockRowSource) Name() string { return m.NameValue }

func (m *MockRowSource) Fetch(ctx context.Context) ([]pipeline.Fields, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return []pipeline.Fields{}, nil
}

// MockMetricsExporter is a mock implementation of MetricsExporter for testing.
type MockMetricsExporter struct {
	ExportSyncRunFunc func(ctx context.Context, run *domain.SyncRun) error
	CloseFunc         func(ctx context.Context) error
}

func (m *MockMetricsExporter) ExportSyncRun(ctx context.Context, run *domain.SyncRun) error {
	if m.ExportSyncRunFunc != nil {
		return m.ExportSyncRunFunc(ctx, run)
	}
	return nil
}

func (m *MockMetricsExporter) Close(ctx context.Context) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	StoreFunc func(ctx context.Context, runID, role string, rows []pipeline.Fields) (string, error)
	GetFunc   func(ctx context.Context, runID, role string) ([]pipeline.Fields, error)
}

func (m *MockSnapshotStore) Store(ctx context.Context, runID, role string, rows []pipeline.Fields) (string, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, runID, role, rows)
	}
	return "", nil
}

func (m *MockSnapshotStore) Get(ctx context.Context, runID, role string) ([]pipeline.Fields, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, runID, role)
	}
	return []pipeline.Fields{}, nil
}
