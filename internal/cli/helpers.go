package cli

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/emiliopalmerini/crodash/internal/adapters/ideation"
	"github.com/emiliopalmerini/crodash/internal/adapters/sheet"
	"github.com/emiliopalmerini/crodash/internal/config"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
	"github.com/emiliopalmerini/crodash/internal/ports"
	"github.com/emiliopalmerini/crodash/internal/util"
)

const (
	databaseFile = "crodash.db"
	tokenFile    = "ideation_token.json"
)

// databaseURL falls back to a local file in the data directory.
func databaseURL(db config.Database) (string, error) {
	if db.URL != "" {
		return db.URL, nil
	}
	path, err := util.DataFile(databaseFile)
	if err != nil {
		return "", err
	}
	return "file:" + path, nil
}

func tokenStore(c config.Ideation) (ideation.TokenFile, error) {
	if c.TokenPath != "" {
		return ideation.TokenFile{Path: c.TokenPath}, nil
	}
	path, err := util.DataFile(tokenFile)
	if err != nil {
		return ideation.TokenFile{}, err
	}
	return ideation.TokenFile{Path: path}, nil
}

func oauthConfig(c config.Ideation) ideation.OAuthConfig {
	return ideation.OAuthConfig{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		AuthURL:      c.AuthURL,
		TokenURL:     c.TokenURL,
		RedirectURL:  c.RedirectURL,
	}
}

func loadMapping(c config.Sync) (*pipeline.Mapping, error) {
	if c.MappingPath != "" {
		return pipeline.LoadMapping(c.MappingPath)
	}
	return pipeline.DefaultMapping()
}

// liveSource builds the row source named by source.
func liveSource(ctx context.Context, c *config.Config, m *pipeline.Mapping, source string) (ports.RowSource, error) {
	switch source {
	case config.SourceSheet:
		if c.Sheet.URL == "" {
			return nil, fmt.Errorf("CRODASH_SHEET_URL is required for the sheet source")
		}
		sm, err := m.Source(pipeline.SourceSheet)
		if err != nil {
			return nil, err
		}
		return sheet.NewSource(config.SourceSheet, c.Sheet.URL, sm, nil), nil

	case config.SourceIdeation:
		if c.Ideation.BaseURL == "" {
			return nil, fmt.Errorf("CRODASH_IDEATION_BASE_URL is required for the ideation source")
		}
		sm, err := m.Source(pipeline.SourceIdeation)
		if err != nil {
			return nil, err
		}
		file, err := tokenStore(c.Ideation)
		if err != nil {
			return nil, err
		}
		ts, err := ideation.TokenSource(ctx, oauthConfig(c.Ideation), file)
		if err != nil {
			return nil, err
		}
		return ideation.NewSource(c.Ideation.BaseURL, c.Ideation.PageSize, sm, oauth2.NewClient(ctx, ts), logger), nil

	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

// legacySource reads the older spreadsheet with the sheet column mapping.
func legacySource(c *config.Config, m *pipeline.Mapping) (ports.RowSource, error) {
	if c.Sheet.LegacyURL == "" {
		return nil, fmt.Errorf("CRODASH_SHEET_LEGACY_URL is required for legacy enrichment")
	}
	sm, err := m.Source(pipeline.SourceSheet)
	if err != nil {
		return nil, err
	}
	return sheet.NewSource("legacy-sheet", c.Sheet.LegacyURL, sm, nil), nil
}
