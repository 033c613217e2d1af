package otel

// Config holds OTEL exporter configuration. It is loaded as part of the
// application config under the CRODASH_OTEL_ prefix.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT"`
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
}

// Active reports whether an exporter should be created.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}
