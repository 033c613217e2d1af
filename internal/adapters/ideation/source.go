// Package ideation pages through the ideation platform's idea list API.
package ideation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

const defaultPageSize = 100

// ideaPage is one response of the idea list endpoint.
type ideaPage struct {
	Ideas []map[string]any `json:"idea_list"`
	Stats struct {
		PageCount int `json:"page_count"`
	} `json:"stats"`
}

// Source reads every idea page sequentially. The HTTP client is expected to
// authorize requests, usually through oauth2.NewClient.
type Source struct {
	baseURL  string
	pageSize int
	mapping  pipeline.SourceMapping
	client   *http.Client
	log      *zap.Logger
}

func NewSource(baseURL string, pageSize int, mapping pipeline.SourceMapping, client *http.Client, log *zap.Logger) *Source {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		mapping:  mapping,
		client:   client,
		log:      log,
	}
}

func (s *Source) Name() string { return pipeline.SourceIdeation }

// Fetch requests page 1 and keeps going until the reported page count is
// reached. Any failed page fails the whole fetch.
func (s *Source) Fetch(ctx context.Context) ([]pipeline.Fields, error) {
	var out []pipeline.Fields
	page, pageCount := 1, 1
	for {
		p, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, idea := range p.Ideas {
			out = append(out, s.mapping.FromJSON(idea))
		}
		pageCount = p.Stats.PageCount
		s.log.Debug("fetched idea page",
			zap.Int("page", page),
			zap.Int("page_count", pageCount),
			zap.Int("ideas", len(p.Ideas)))

		page++
		if page > pageCount {
			break
		}
	}
	return out, nil
}

func (s *Source) fetchPage(ctx context.Context, page int) (*ideaPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(s.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api3/idea?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build idea request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch idea page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch idea page %d: unexpected status %s", page, resp.Status)
	}

	var p ideaPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode idea page %d: %w", page, err)
	}
	return &p, nil
}
