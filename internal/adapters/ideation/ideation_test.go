package ideation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

func tokenServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"r2","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenFile_RoundTrip(t *testing.T) {
	f := TokenFile{Path: filepath.Join(t.TempDir(), "nested", "token.json")}

	_, err := f.Load()
	require.ErrorIs(t, err, ErrNoToken)

	expiry := time.UnixMilli(1767225600123)
	require.NoError(t, f.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}))

	raw, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, float64(1767225600123), onDisk["expires_at"])

	tok, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.True(t, tok.Expiry.Equal(expiry))
}

func TestAuthURL(t *testing.T) {
	u := AuthURL(OAuthConfig{ClientID: "cid", AuthURL: "https://ideas.example.com/oauth/authorize", RedirectURL: "https://localhost/cb"})
	assert.Contains(t, u, "client_id=cid")
	assert.Contains(t, u, "response_type=code")
	assert.Contains(t, u, "redirect_uri=https%3A%2F%2Flocalhost%2Fcb")
}

func TestExchange_SavesToken(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) {
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
	})
	cfg := OAuthConfig{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL, RedirectURL: "https://localhost/cb"}
	f := TokenFile{Path: filepath.Join(t.TempDir(), "token.json")}

	tok, err := Exchange(context.Background(), cfg, f, "the-code")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	saved, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "r2", saved.RefreshToken)
}

func TestTokenSource_RefreshesAndPersists(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) {
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "r1", r.PostForm.Get("refresh_token"))
	})
	cfg := OAuthConfig{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL}
	f := TokenFile{Path: filepath.Join(t.TempDir(), "token.json")}
	require.NoError(t, f.Save(&oauth2.Token{AccessToken: "stale", RefreshToken: "r1", Expiry: time.Now().Add(-time.Hour)}))

	ts, err := TokenSource(context.Background(), cfg, f)
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	saved, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)
	assert.Equal(t, "r2", saved.RefreshToken)
}

func ideationMapping(t *testing.T) pipeline.SourceMapping {
	t.Helper()
	m, err := pipeline.DefaultMapping()
	require.NoError(t, err)
	src, err := m.Source(pipeline.SourceIdeation)
	require.NoError(t, err)
	return src
}

func TestSource_FetchPages(t *testing.T) {
	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api3/idea", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page_size"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		body := map[string]any{"stats": map[string]any{"page_count": 2}}
		switch page {
		case 1:
			body["idea_list"] = []any{
				map[string]any{
					"idea_code": "EXP1",
					"title":     "Hero video",
					"status":    map[string]any{"name": "6 Running"},
					"custom_questions": []any{
						map[string]any{"question": "Start Date", "answer": "02/26/2026"},
						map[string]any{"question": "Electrolux Market(s)", "answer": []any{"UK", "DE"}},
					},
				},
				map[string]any{"idea_code": "EXP2", "title": "Sticky cart"},
			}
		default:
			body["idea_list"] = []any{map[string]any{"idea_code": "EXP3", "title": "Last"}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/", 2, ideationMapping(t), srv.Client(), nil)
	assert.Equal(t, pipeline.SourceIdeation, src.Name())

	rows, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, pages)
	require.Len(t, rows, 3)

	assert.Equal(t, "EXP1", rows[0][pipeline.FieldID])
	assert.Equal(t, "6 Running", rows[0][pipeline.FieldStatus])
	assert.Equal(t, "02/26/2026", rows[0][pipeline.FieldStartDate])
	assert.Equal(t, "UK, DE", rows[0][pipeline.FieldMarketsPrimary])
	assert.Equal(t, "EXP3", rows[2][pipeline.FieldCode])
}

func TestSource_FetchEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"idea_list":[],"stats":{"page_count":0}}`))
	}))
	defer srv.Close()

	rows, err := NewSource(srv.URL, 0, ideationMapping(t), srv.Client(), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSource_PageFailureFailsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"idea_list":[{"idea_code":"EXP1"}],"stats":{"page_count":3}}`))
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL, 10, ideationMapping(t), srv.Client(), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
}
