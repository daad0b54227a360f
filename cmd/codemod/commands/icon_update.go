package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemod/internal/config"
	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
	"github.com/Sumatoshi-tech/codemod/internal/runner"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

// stdinArg selects stdin-to-stdout mode.
const stdinArg = "-"

func newIconUpdateCommand(globals *globalFlags) *cobra.Command {
	var (
		dryRun        bool
		stdinFilename string
		grammar       string
	)

	cmd := &cobra.Command{
		Use:   "icon-update [paths...|-]",
		Short: "Migrate legacy icon usages to the component API",
		Long: `Rewrite every file that imports the legacy icon component.

  import Icon from "@benefex/react/redesign/Icon"  becomes a named import of
  Icon from "@benefex/components", and every <Icon name="x" /> becomes
  <Icon component={X} /> with X imported from "@benefex/components/icons".

A file with an unsupported prop or an icon missing from the map is reported
and left untouched.

Examples:
  codemod icon-update --icon-map icons.json src/
  codemod icon-update --check --diff .
  codemod icon-update --icon-map icons.yaml - < App.tsx
  codemod icon-update --icon-map icons.json --grammar javascript - < legacy.js`,
	}

	bindings := importFlags(cmd)
	bindings = append(bindings, runFlags(cmd)...)

	flags := cmd.Flags()
	flags.BoolVar(&dryRun, "dry-run", false, "do not write files")
	flags.Bool("diff", false, "print a unified diff of every change")
	flags.Bool("check", false, "exit non-zero when any file needs migrating; implies --dry-run")
	flags.StringVar(&stdinFilename, "stdin-filename", "stdin.tsx", "file name used to pick the grammar in - mode")
	flags.StringVar(&grammar, "grammar", "",
		"grammar for - mode, overriding --stdin-filename ("+strings.Join(syntax.Grammars(), ", ")+")")

	bindings = append(bindings,
		config.FlagBinding{Key: "run.diff", Flag: flags.Lookup("diff")},
		config.FlagBinding{Key: "run.check", Flag: flags.Lookup("check")},
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, globals, observability.ModeCLI, bindings)
		if err != nil {
			return err
		}

		defer func() {
			closeErr := a.close(cmd.Context())
			if closeErr != nil {
				a.providers.Logger.Warn("shutdown failed", "error", closeErr)
			}
		}()

		if len(args) == 1 && args[0] == stdinArg {
			return runStdin(cmd, a.transformer, iconmod.File{Path: stdinFilename, Grammar: grammar})
		}

		return runIconUpdate(cmd, a, args, dryRun)
	}

	return cmd
}

func runStdin(cmd *cobra.Command, tr *iconmod.Transformer, file iconmod.File) error {
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	file.Source = source

	res, err := tr.Transform(cmd.Context(), file)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(res.Output)
	if err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}

	return nil
}

func runIconUpdate(cmd *cobra.Command, a *app, paths []string, dryRun bool) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := runner.Discover(paths, runner.DiscoverOptions{
		Extensions: a.cfg.NormalizedExtensions(),
		Exclude:    a.cfg.Run.Exclude,
	})
	if err != nil {
		return err
	}

	run := runner.New(a.transformer, runner.Options{
		Workers: a.cfg.Run.Workers,
		Write:   a.cfg.Run.Write && !dryRun && !a.cfg.Run.Check,
		Diff:    a.cfg.Run.Diff,
	}, runner.Deps{
		Logger:  a.providers.Logger,
		Tracer:  a.providers.Tracer,
		Metrics: a.metrics,
	})

	rep, err := run.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	err = runner.WriteDiffs(cmd.OutOrStdout(), rep)
	if err != nil {
		return err
	}

	err = runner.WriteSummary(cmd.ErrOrStderr(), rep)
	if err != nil {
		return err
	}

	if failed := len(rep.Failed()); failed > 0 {
		return fmt.Errorf("%w: %d of %d", runner.ErrFilesFailed, failed, len(rep.Files))
	}

	if a.cfg.Run.Check && rep.Changed() > 0 {
		return fmt.Errorf("%w: %d", runner.ErrChangesPending, rep.Changed())
	}

	return nil
}
