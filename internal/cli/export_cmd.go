package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/metraj/internal/service"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Write the quantity table and findings to an Excel or PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			f, err := exportFormat(format, out)
			if err != nil {
				return err
			}
			if out == "" {
				p, err := app.Projects.GetByID(ctx, projectID)
				if err != nil {
					return err
				}
				out = strings.ToLower(p.DisplayID()) + "." + string(f)
			}

			data, err := app.Export.Export(ctx, projectID, f)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.Wrapf(err, "creating %s", dir)
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: xlsx or pdf (default from --out extension, else xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path")

	return cmd
}

// exportFormat resolves the explicit --format value, falling back to the
// extension of the output path.
func exportFormat(format, out string) (service.ExportFormat, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	switch strings.ToLower(format) {
	case "", "xlsx", "excel":
		return service.ExportXLSX, nil
	case "pdf":
		return service.ExportPDF, nil
	default:
		return "", errors.Newf("unsupported export format %q (want xlsx or pdf)", format)
	}
}
