package config

import (
	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
)

// ImportOptions returns the engine options of the imports section. A blank
// icons path is derived from the package root by the engine.
func (c *Config) ImportOptions() iconmod.Options {
	return iconmod.Options{
		LegacyImportPath: c.Imports.LegacyPath,
		PackageRoot:      c.Imports.Package,
		ComponentName:    c.Imports.Component,
		IconsModule:      c.Imports.IconsPath,
	}
}

// ObservabilityConfig translates the log and telemetry sections for mode.
// The log level is assumed valid; Validate has checked it.
func (c *Config) ObservabilityConfig(mode observability.AppMode, serviceVersion string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = serviceVersion
	cfg.LogJSON = c.Log.JSON
	cfg.LogLevel, _ = observability.ParseLevel(c.Log.Level)
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.SampleRatio = c.Telemetry.SampleRatio

	return cfg
}
