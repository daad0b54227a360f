package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
)

// configName is the config file name without extension.
const configName = ".codemod"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix.
const envPrefix = "CODEMOD"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Defaults.
const (
	DefaultRunWorkers = 0
	DefaultLogLevel   = "info"
)

// DefaultExtensions are the file extensions processed when none are configured.
func DefaultExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx"}
}

// DefaultExclude are the directory names skipped during discovery.
func DefaultExclude() []string {
	return []string{"node_modules", "dist", "build", "coverage"}
}

// FlagBinding overrides a config key with a command-line flag when the flag
// was set explicitly.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// LoadConfig loads configuration from defaults, file, env vars, and flags.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string, flags ...FlagBinding) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	for _, binding := range flags {
		if binding.Flag == nil {
			continue
		}

		bindErr := viperCfg.BindPFlag(binding.Key, binding.Flag)
		if bindErr != nil {
			return nil, fmt.Errorf("bind flag %s: %w", binding.Flag.Name, bindErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("icon_map", "")

	viperCfg.SetDefault("imports.legacy_path", iconmod.DefaultLegacyImportPath)
	viperCfg.SetDefault("imports.package", iconmod.DefaultPackageRoot)
	viperCfg.SetDefault("imports.component", iconmod.DefaultComponentName)
	viperCfg.SetDefault("imports.icons_path", "")

	viperCfg.SetDefault("run.workers", DefaultRunWorkers)
	viperCfg.SetDefault("run.extensions", DefaultExtensions())
	viperCfg.SetDefault("run.exclude", DefaultExclude())
	viperCfg.SetDefault("run.write", true)
	viperCfg.SetDefault("run.diff", false)
	viperCfg.SetDefault("run.check", false)

	viperCfg.SetDefault("log.level", DefaultLogLevel)
	viperCfg.SetDefault("log.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}
