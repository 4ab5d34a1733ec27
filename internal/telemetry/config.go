package telemetry

import "fmt"

// ExporterStdout writes spans to stderr via the stdouttrace exporter. It is
// the only exporter seiscat ships; the constant exists so config files read
// explicitly.
const ExporterStdout = "stdout"

// Config controls tracing.
type Config struct {
	// Enabled turns span export on. When false New returns a provider
	// that records nothing.
	Enabled bool `koanf:"enabled"`

	// ServiceName and ServiceVersion identify this process in the
	// exported resource attributes.
	ServiceName    string `koanf:"service_name"`
	ServiceVersion string `koanf:"service_version"`

	// Exporter selects the span exporter. Only "stdout" is supported.
	Exporter string `koanf:"exporter"`

	// SampleRatio is the fraction of traces to sample. Values at or
	// above 1 sample everything, values at or below 0 sample nothing.
	SampleRatio float64 `koanf:"sample_ratio"`

	// Pretty indents the exported spans. Useful when reading traces by
	// eye, noisy when piping them anywhere else.
	Pretty bool `koanf:"pretty"`
}

// NewDefaultConfig returns the tracing defaults: disabled, full sampling,
// compact output.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		ServiceName:    "seiscat",
		ServiceVersion: "dev",
		Exporter:       ExporterStdout,
		SampleRatio:    1.0,
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}
	if c.Exporter != "" && c.Exporter != ExporterStdout {
		return fmt.Errorf("unsupported exporter %q (only %q is available)", c.Exporter, ExporterStdout)
	}
	return nil
}
