// Package config loads crodash settings from CRODASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/crodash/internal/adapters/otel"
	"github.com/emiliopalmerini/crodash/internal/domain"
)

// Prefix of every environment variable.
const Prefix = "CRODASH"

// Sink names.
const (
	SinkTurso    = "turso"
	SinkPostgres = "postgres"
)

// Source names.
const (
	SourceSheet    = "sheet"
	SourceIdeation = "ideation"
)

// Database holds libsql configuration. An empty URL selects a local file in
// the data directory.
type Database struct {
	URL       string `envconfig:"URL"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// Postgres holds the connection string of the hosted experiments table.
type Postgres struct {
	URL string `envconfig:"URL"`
}

// Sheet holds the CSV export locations.
type Sheet struct {
	URL       string `envconfig:"URL"`
	LegacyURL string `envconfig:"LEGACY_URL"`
}

// Ideation holds the idea platform's API and OAuth settings.
type Ideation struct {
	BaseURL      string `envconfig:"BASE_URL"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	AuthURL      string `envconfig:"AUTH_URL"`
	TokenURL     string `envconfig:"TOKEN_URL"`
	RedirectURL  string `envconfig:"REDIRECT_URL"`
	TokenPath    string `envconfig:"TOKEN_PATH"`
	PageSize     int    `envconfig:"PAGE_SIZE" default:"100"`
}

// Sync holds ingest settings.
type Sync struct {
	Source      string `envconfig:"SOURCE" default:"sheet"`
	Sink        string `envconfig:"SINK" default:"turso"`
	BatchSize   int    `envconfig:"BATCH_SIZE" default:"100"`
	MappingPath string `envconfig:"MAPPING_PATH"`
	Snapshots   bool   `envconfig:"SNAPSHOTS" default:"true"`
}

// Policy holds the open product decisions.
type Policy struct {
	DisplayStatus string `envconfig:"DISPLAY_STATUS" default:"status"`
	MissingDates  string `envconfig:"MISSING_DATES" default:"include"`
}

// Log holds logger settings.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type Config struct {
	Database Database    `envconfig:"DATABASE"`
	Postgres Postgres    `envconfig:"POSTGRES"`
	Sheet    Sheet       `envconfig:"SHEET"`
	Ideation Ideation    `envconfig:"IDEATION"`
	Sync     Sync        `envconfig:"SYNC"`
	Policy   Policy      `envconfig:"POLICY"`
	Log      Log         `envconfig:"LOG"`
	Server   Server      `envconfig:"SERVER"`
	OTel     otel.Config `envconfig:"OTEL"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.Sync.Source {
	case SourceSheet, SourceIdeation:
	default:
		errs = append(errs, fmt.Errorf("unknown sync source %q", c.Sync.Source))
	}
	switch c.Sync.Sink {
	case SinkTurso, SinkPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown sync sink %q", c.Sync.Sink))
	}
	if c.Sync.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.Sync.BatchSize))
	}
	if c.Ideation.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("ideation page size must be positive, got %d", c.Ideation.PageSize))
	}
	if _, err := c.StatusPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MissingDatePolicy(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) StatusPolicy() (domain.StatusPolicy, error) {
	return domain.ParseStatusPolicy(c.Policy.DisplayStatus)
}

func (c *Config) MissingDatePolicy() (domain.MissingDatePolicy, error) {
	return domain.ParseMissingDatePolicy(c.Policy.MissingDates)
}
