// Package commands implements the codemod cobra commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/codemod/internal/config"
	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
	"github.com/Sumatoshi-tech/codemod/pkg/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	logJSON    bool
}

// NewRootCommand builds the codemod command tree.
func NewRootCommand() *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "codemod",
		Short: "Source-to-source migrations for JavaScript and TypeScript",
		Long: `codemod rewrites JavaScript and TypeScript sources in place.

The icon-update migration moves legacy icon imports and name="x" usages to the
unified <Icon component={X} /> API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "config file (default is ./.codemod.yaml or $HOME/.codemod.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&globals.logJSON, "log-json", false, "JSON log output")

	rootCmd.AddCommand(newIconUpdateCommand(globals))
	rootCmd.AddCommand(newScanCommand(globals))
	rootCmd.AddCommand(newValidateMapCommand())
	rootCmd.AddCommand(newMCPCommand(globals))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codemod %s\n", version.String())
		},
	}
}

// app is the state shared by a command run.
type app struct {
	cfg         *config.Config
	providers   observability.Providers
	metrics     *observability.REDMetrics
	icons       iconmod.IconMap
	transformer *iconmod.Transformer
}

// setup loads configuration, initializes observability, and builds the
// transformer. The caller must call close.
func setup(
	cmd *cobra.Command, globals *globalFlags, mode observability.AppMode,
	bindings []config.FlagBinding, readers ...sdkmetric.Reader,
) (*app, error) {
	cfg, err := config.LoadConfig(globals.configPath, append(bindings,
		config.FlagBinding{Key: "log.json", Flag: cmd.Flag("log-json")},
	)...)
	if err != nil {
		return nil, err
	}

	if globals.verbose {
		cfg.Log.Level = "debug"
	}

	obsCfg := cfg.ObservabilityConfig(mode, version.Version)
	obsCfg.LogWriter = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg, readers...)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	a := &app{cfg: cfg, providers: providers}

	a.metrics, err = observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, a.close(cmd.Context()))
	}

	icons := iconmod.NewIconMap(nil)

	if cfg.IconMap != "" {
		icons, err = iconmod.LoadIconMap(cfg.IconMap)
		if err != nil {
			return nil, errors.Join(err, a.close(cmd.Context()))
		}
	}

	a.icons = icons
	a.transformer = iconmod.New(syntax.NewParser(), icons, cfg.ImportOptions())

	providers.Logger.DebugContext(cmd.Context(), "configuration loaded",
		slog.String("icon_map", cfg.IconMap),
		slog.Int("icons", icons.Len()),
		slog.String("package", a.transformer.Options().PackageRoot),
	)

	return a, nil
}

func (a *app) close(ctx context.Context) error {
	err := a.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("observability shutdown: %w", err)
	}

	return nil
}

// importFlags registers the module specifier overrides and returns their bindings.
func importFlags(cmd *cobra.Command) []config.FlagBinding {
	flags := cmd.Flags()
	flags.String("icon-map", "", "JSON or YAML file mapping legacy icon names to identifiers")
	flags.String("legacy-path", iconmod.DefaultLegacyImportPath, "module of the legacy default import")
	flags.String("package", iconmod.DefaultPackageRoot, "package root exporting the icon component")
	flags.String("component", iconmod.DefaultComponentName, "exported name of the icon component")
	flags.String("icons-path", "", "module exporting the icon identifiers (default <package>/icons)")

	return []config.FlagBinding{
		{Key: "icon_map", Flag: flags.Lookup("icon-map")},
		{Key: "imports.legacy_path", Flag: flags.Lookup("legacy-path")},
		{Key: "imports.package", Flag: flags.Lookup("package")},
		{Key: "imports.component", Flag: flags.Lookup("component")},
		{Key: "imports.icons_path", Flag: flags.Lookup("icons-path")},
	}
}

// runFlags registers the discovery flags and returns their bindings.
func runFlags(cmd *cobra.Command) []config.FlagBinding {
	flags := cmd.Flags()
	flags.IntP("workers", "j", 0, "parallel workers (default one per CPU)")
	flags.StringSlice("ext", config.DefaultExtensions(), "file extensions to process")
	flags.StringSlice("exclude", config.DefaultExclude(), "directory names to skip")

	return []config.FlagBinding{
		{Key: "run.workers", Flag: flags.Lookup("workers")},
		{Key: "run.extensions", Flag: flags.Lookup("ext")},
		{Key: "run.exclude", Flag: flags.Lookup("exclude")},
	}
}
