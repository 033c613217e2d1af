// Package storage archives the raw rows each sync run fetched so a run can be
// inspected or replayed later.
package storage

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
	"github.com/emiliopalmerini/crodash/internal/util"
)

type SnapshotStorage struct {
	baseDir string
}

// NewSnapshotStorage stores snapshots under the crodash data directory.
func NewSnapshotStorage() (*SnapshotStorage, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}
	return NewSnapshotStorageAt(filepath.Join(baseDir, "snapshots"))
}

func NewSnapshotStorageAt(dir string) (*SnapshotStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}
	return &SnapshotStorage{baseDir: dir}, nil
}

// Store writes rows as gzip-compressed JSON lines and returns the file path.
// The file only appears at its final path once fully written.
func (s *SnapshotStorage) Store(ctx context.Context, runID, role string, rows []pipeline.Fields) (path string, err error) {
	destPath := s.getPath(runID, role)

	tmp, err := os.CreateTemp(s.baseDir, filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	gw := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gw)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("failed to write snapshot: %w", err)
		}
		if err := enc.Encode(row); err != nil {
			return "", fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}

	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to close gzip writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return destPath, nil
}

func (s *SnapshotStorage) Get(ctx context.Context, runID, role string) ([]pipeline.Fields, error) {
	file, err := os.Open(s.getPath(runID, role))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer func() { _ = file.Close() }()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	var rows []pipeline.Fields
	scanner := bufio.NewScanner(gr)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var row pipeline.Fields
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return rows, nil
}

func (s *SnapshotStorage) Exists(ctx context.Context, runID, role string) (bool, error) {
	_, err := os.Stat(s.getPath(runID, role))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *SnapshotStorage) getPath(runID, role string) string {
	return filepath.Join(s.baseDir, runID+"."+role+".jsonl.gz")
}

// Replay exposes a stored snapshot as a row source.
type Replay struct {
	storage *SnapshotStorage
	runID   string
	role    string
}

func NewReplay(storage *SnapshotStorage, runID, role string) *Replay {
	return &Replay{storage: storage, runID: runID, role: role}
}

func (r *Replay) Name() string { return "replay:" + r.runID }

func (r *Replay) Fetch(ctx context.Context) ([]pipeline.Fields, error) {
	ok, err := r.storage.Exists(ctx, r.runID, r.role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s snapshot for run %s", r.role, r.runID)
	}
	return r.storage.Get(ctx, r.runID, r.role)
}
