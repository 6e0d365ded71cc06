package cli

import (
	"github.com/alexanderramin/metraj/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Items      service.LineItemService
	Validation service.ValidationService
	Import     service.ImportService
	Analysis   service.AnalysisService
	Export     service.ExportService

	// IsInteractive reports whether stdin/stdout are attached to a terminal.
	// Nil means non-interactive.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "metraj" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "metraj",
		Short:         "Quantity survey calculator and checker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newItemCmd(app),
		newCalcCmd(),
		newImportCmd(app),
		newValidateCmd(app),
		newAnalyzeCmd(app),
		newHistoryCmd(app),
		newExportCmd(app),
	)

	return root
}
