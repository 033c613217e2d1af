package ideation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// OAuthConfig describes the ideation platform's OAuth2 application.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
}

// Config returns the oauth2 configuration. Client credentials travel in the
// form body, as the platform expects.
func (c OAuthConfig) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthURL,
			TokenURL:  c.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// ErrNoToken is returned when the token cache file does not exist yet.
var ErrNoToken = errors.New("no cached ideation token; run `crodash auth url` and `crodash auth exchange <code>`")

// cachedToken is the on-disk token format. ExpiresAt is in Unix milliseconds.
type cachedToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// TokenFile persists tokens at a fixed path.
type TokenFile struct {
	Path string
}

func (f TokenFile) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var c cachedToken
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
	if c.ExpiresAt > 0 {
		tok.Expiry = time.UnixMilli(c.ExpiresAt)
	}
	return tok, nil
}

func (f TokenFile) Save(tok *oauth2.Token) error {
	c := cachedToken{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if !tok.Expiry.IsZero() {
		c.ExpiresAt = tok.Expiry.UnixMilli()
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// AuthURL returns the consent page address for the bootstrap step.
func AuthURL(cfg OAuthConfig) string {
	return cfg.Config().AuthCodeURL("")
}

// Exchange trades an authorization code for tokens and caches them.
func Exchange(ctx context.Context, cfg OAuthConfig, file TokenFile, code string) (*oauth2.Token, error) {
	tok, err := cfg.Config().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := file.Save(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// TokenSource returns a source that refreshes the cached token when it
// expires and writes refreshed tokens back to file.
func TokenSource(ctx context.Context, cfg OAuthConfig, file TokenFile) (oauth2.TokenSource, error) {
	tok, err := file.Load()
	if err != nil {
		return nil, err
	}
	base := oauth2.ReuseTokenSource(tok, cfg.Config().TokenSource(ctx, tok))
	return &persistingSource{base: base, file: file, last: tok.AccessToken}, nil
}

type persistingSource struct {
	base oauth2.TokenSource
	file TokenFile

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.file.Save(tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
