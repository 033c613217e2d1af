// Package sheet reads experiment rows from a spreadsheet CSV export.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

const defaultTimeout = 30 * time.Second

// Source fetches the whole CSV export in one request. Location is either an
// http(s) URL or a local file path.
type Source struct {
	name     string
	location string
	mapping  pipeline.SourceMapping
	client   *http.Client
}

// NewSource returns a Source named name. A nil client gets a default one with
// a request timeout.
func NewSource(name, location string, mapping pipeline.SourceMapping, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Source{name: name, location: location, mapping: mapping, client: client}
}

func (s *Source) Name() string { return s.name }

// Fetch downloads and projects every data row.
func (s *Source) Fetch(ctx context.Context) ([]pipeline.Fields, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	records, err := ReadRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s CSV: %w", s.name, err)
	}

	out := make([]pipeline.Fields, 0, len(records))
	for _, rec := range records {
		out = append(out, s.mapping.FromRecord(rec))
	}
	return out, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(s.location, "http://") && !strings.HasPrefix(s.location, "https://") {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CSV request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET CSV: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to GET CSV: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// ReadRecords parses a header-first CSV document into header-keyed records.
// Rows whose cells are all blank are skipped.
func ReadRecords(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var out []map[string]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(map[string]string, len(headers))
		blank := true
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			rec[h] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
}
