package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/codemod/pkg/observability"
	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// Config is the top-level configuration of the codemod tool.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	IconMap   string          `mapstructure:"icon_map"`
	Imports   ImportsConfig   `mapstructure:"imports"`
	Run       RunConfig       `mapstructure:"run"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ImportsConfig names the modules involved in the migration.
type ImportsConfig struct {
	LegacyPath string `mapstructure:"legacy_path"`
	Package    string `mapstructure:"package"`
	Component  string `mapstructure:"component"`
	IconsPath  string `mapstructure:"icons_path"`
}

// RunConfig holds batch runner knobs.
type RunConfig struct {
	Workers    int      `mapstructure:"workers"`
	Extensions []string `mapstructure:"extensions"`
	Exclude    []string `mapstructure:"exclude"`
	Write      bool     `mapstructure:"write"`
	Diff       bool     `mapstructure:"diff"`
	Check      bool     `mapstructure:"check"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("run.workers must be non-negative")
	// ErrNoExtensions indicates an empty extension list.
	ErrNoExtensions = errors.New("run.extensions must not be empty")
	// ErrUnsupportedExtension indicates an extension no grammar handles.
	ErrUnsupportedExtension = errors.New("run.extensions contains an unsupported extension")
	// ErrEmptyImport indicates a blank module specifier or component name.
	ErrEmptyImport = errors.New("imports values must not be blank")
	// ErrInvalidSampleRatio indicates the sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	err := c.validateRun()
	if err != nil {
		return err
	}

	err = c.validateImports()
	if err != nil {
		return err
	}

	_, err = observability.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

func (c *Config) validateRun() error {
	if c.Run.Workers < 0 {
		return ErrInvalidWorkers
	}

	if len(c.Run.Extensions) == 0 {
		return ErrNoExtensions
	}

	for _, ext := range c.Run.Extensions {
		if !syntax.IsSupported("file" + normalizeExtension(ext)) {
			return fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
		}
	}

	return nil
}

func (c *Config) validateImports() error {
	fields := map[string]string{
		"imports.legacy_path": c.Imports.LegacyPath,
		"imports.package":     c.Imports.Package,
		"imports.component":   c.Imports.Component,
	}

	for key, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptyImport, key)
		}
	}

	return nil
}

// NormalizedExtensions returns the configured extensions with a leading dot.
func (c *Config) NormalizedExtensions() []string {
	out := make([]string, 0, len(c.Run.Extensions))
	for _, ext := range c.Run.Extensions {
		out = append(out, normalizeExtension(ext))
	}

	return out
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
