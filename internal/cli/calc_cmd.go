package cli

import (
	"fmt"

	"github.com/alexanderramin/metraj/internal/cli/formatter"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/importer"
	"github.com/alexanderramin/metraj/internal/quantity"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var (
		dims    lineItemFlags
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a quantity without storing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dims.unit == "" {
				return errors.New("--unit is required")
			}
			calc := quantity.Breakdown(domain.LineItem{
				Unit:       importer.NormalizeUnit(dims.unit),
				X:          dims.x,
				Y:          dims.y,
				Z:          dims.z,
				Multiplier: dims.multiplier,
				Count:      dims.count,
				UnitWeight: dims.unitWeight,
			})

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"unit":     calc.Dimensions.Unit.String(),
					"basis":    calc.Basis,
					"raw":      calc.Raw,
					"quantity": calc.Quantity,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCalculation(calc))
			return nil
		},
	}

	dims.register(cmd.Flags())
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}
