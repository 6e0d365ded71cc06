package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/metraj/internal/cli/formatter"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze PROJECT",
		Short: "Produce a risk report from the project's findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var rep *domain.RiskReport
			run := func() error {
				var err error
				rep, err = app.Analysis.Analyze(ctx, projectID)
				return err
			}
			if app.interactive() && !jsonOut {
				err = formatter.RunWithSpinner(ctx, cmd.ErrOrStderr(), "Analyzing quantities…", run)
			} else {
				err = run()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, rep)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRiskReport(rep))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the report as JSON")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history PROJECT",
		Short: "List past risk reports, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			reports, err := app.Analysis.History(ctx, projectID, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, reports)
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports yet. Run metraj analyze first.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(reports))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum reports to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print reports as JSON")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}
