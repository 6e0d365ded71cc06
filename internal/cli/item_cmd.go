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

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage line items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemShowCmd(app),
		newItemRemoveCmd(app),
		newItemRecalcCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		dims        lineItemFlags
		poz, desc   string
		category    string
		total       *float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a line item to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			li := &domain.LineItem{
				ProjectID:   projectID,
				PozCode:     poz,
				Description: desc,
				Unit:        dims.unit,
				Category:    domain.Category(category),
				X:           dims.x,
				Y:           dims.y,
				Z:           dims.z,
				Multiplier:  dims.multiplier,
				Count:       dims.count,
				UnitWeight:  dims.unitWeight,
			}

			if interactive {
				if !app.interactive() {
					return errors.New("--interactive needs a terminal")
				}
				if err := runItemForm(li, &total); err != nil {
					return err
				}
			}
			if li.Unit == "" {
				return errors.New("--unit is required")
			}
			if li.Category == "" {
				return errors.New("--category is required")
			}

			li.Unit = importer.NormalizeUnit(li.Unit)
			// Without an entered total the item is taken at its computed value.
			if total != nil {
				li.TotalQuantity = *total
			} else {
				li.TotalQuantity = quantity.Calculate(*li)
			}

			if err := app.Items.Add(ctx, li); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s: computed %s %s, entered %s\n",
				li.DisplayPoz(), formatter.Qty(li.ComputedQuantity), li.Unit, formatter.Qty(li.TotalQuantity))
			if findings := itemFindings(app, cmd, li); len(findings) > 0 {
				fmt.Fprintln(out, formatter.FormatFindings(findings))
			}
			return nil
		},
	}

	dims.register(cmd.Flags())
	cmd.Flags().StringVar(&poz, "poz", "", "Position (poz) code")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&category, "category", "", "Concrete, Formwork, Reinforcement or Finishing")
	cmd.Flags().Var(optionalFloat{&total}, "total", "Entered total quantity (default: computed)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the item in with a form")

	return cmd
}

// itemFindings re-runs the structural rules for a single freshly stored item.
func itemFindings(app *App, cmd *cobra.Command, li *domain.LineItem) []domain.Finding {
	rep, err := app.Validation.Validate(cmd.Context(), li.ProjectID)
	if err != nil {
		return nil
	}
	var out []domain.Finding
	for _, f := range rep.Findings {
		if f.ItemID == li.ID {
			out = append(out, f)
		}
	}
	return out
}

func newItemListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's line items",
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
			if len(rep.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No line items.")
				return nil
			}
			items := make([]*domain.LineItem, len(rep.Items))
			for i := range rep.Items {
				items[i] = &rep.Items[i]
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemList(items, rep.Findings))
			return nil
		},
	}
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM",
		Short: "Show a line item and its calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			li, err := app.Items.GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(li))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ITEM",
		Short: "Delete a line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Items.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted line item %s\n", id[:8])
			return nil
		},
	}
}

func newItemRecalcCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc PROJECT",
		Short: "Recompute stored quantities from dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			changed, err := app.Items.Recalculate(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated %d item(s)\n", changed)
			return nil
		},
	}
}
