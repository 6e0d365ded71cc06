package cli

import (
	"fmt"

	"github.com/alexanderramin/metraj/internal/cli/formatter"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// ErrCriticalFindings is returned by validate --strict when the project has
// at least one CRITICAL finding.
var ErrCriticalFindings = errors.New("critical findings present")

type validateJSON struct {
	ProjectID string           `json:"project_id"`
	ShortID   string           `json:"short_id"`
	Items     int              `json:"items"`
	Critical  int              `json:"critical"`
	Warning   int              `json:"warning"`
	Findings  []domain.Finding `json:"findings"`
}

func newValidateCmd(app *App) *cobra.Command {
	var jsonOut, strict bool

	cmd := &cobra.Command{
		Use:   "validate PROJECT",
		Short: "Run structural checks over a project's line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			rep, err := app.Validation.Validate(ctx, projectID)
			if err != nil {
				return err
			}

			if jsonOut {
				if err := writeJSON(cmd, validateJSON{
					ProjectID: rep.Project.ID,
					ShortID:   rep.Project.ShortID,
					Items:     rep.Summary.ItemCount,
					Critical:  rep.Summary.CriticalCount,
					Warning:   rep.Summary.WarningCount,
					Findings:  rep.Findings,
				}); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatValidationReport(rep))
			}

			if strict && rep.Summary.CriticalCount > 0 {
				return errors.Wrapf(ErrCriticalFindings, "%d critical finding(s)", rep.Summary.CriticalCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print findings as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any CRITICAL finding exists")

	return cmd
}
