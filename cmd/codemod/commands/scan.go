package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemod/internal/runner"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
)

func newScanCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "List files that still use the legacy icon imports",
	}

	bindings := importFlags(cmd)
	bindings = append(bindings, runFlags(cmd)...)

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

		if len(args) == 0 {
			args = []string{"."}
		}

		files, err := runner.Discover(args, runner.DiscoverOptions{
			Extensions: a.cfg.NormalizedExtensions(),
			Exclude:    a.cfg.Run.Exclude,
		})
		if err != nil {
			return err
		}

		results, err := runner.New(a.transformer, runner.Options{Workers: a.cfg.Run.Workers}, runner.Deps{
			Logger:  a.providers.Logger,
			Tracer:  a.providers.Tracer,
			Metrics: a.metrics,
		}).Scan(cmd.Context(), files)
		if err != nil {
			return err
		}

		return runner.WriteScan(cmd.OutOrStdout(), results)
	}

	return cmd
}
