package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
)

func newValidateMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-map <file>",
		Short: "Validate an icon map file against the icon map schema",
		Long: `Validate a JSON or YAML icon map. Keys are legacy icon names, values are
the identifiers exported by the icons module.

Examples:
  codemod validate-map icons.json
  codemod validate-map icons.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			icons, err := iconmod.LoadIconMap(args[0])
			if err == nil {
				color.New(color.FgGreen).Fprintf(out, "Icon map is valid (%s)\n", args[0])
				fmt.Fprintf(out, "  Entries: %d\n", icons.Len())

				return nil
			}

			var invalid *iconmod.InvalidIconMapError
			if !errors.As(err, &invalid) {
				return err
			}

			color.New(color.FgRed).Fprintf(out, "Icon map validation failed (%s)\n", args[0])

			for _, problem := range invalid.Problems {
				color.New(color.FgRed).Fprintf(out, "  - %s\n", problem)
			}

			return iconmod.ErrInvalidIconMap
		},
	}
}
