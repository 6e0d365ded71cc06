package cli

import (
	"fmt"

	"github.com/alexanderramin/metraj/internal/cli/formatter"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectEditCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, location, shortID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				ShortID:  shortID,
				Name:     name,
				Location: location,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. KPR01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show project details",
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

			data := formatter.ProjectInspectData{
				Project:       rep.Project,
				ItemCount:     rep.Summary.ItemCount,
				CriticalCount: rep.Summary.CriticalCount,
				WarningCount:  rep.Summary.WarningCount,
			}
			history, err := app.Analysis.History(ctx, projectID, 1)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if len(history) > 0 {
				data.LatestReport = history[0]
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectInspect(data))
			return nil
		},
	}
}

func newProjectEditCmd(app *App) *cobra.Command {
	var name, location, shortID string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a project or change its short ID or location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("location") && !flags.Changed("id") {
				return errors.New("nothing to change (use --name, --location or --id)")
			}
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("location") {
				p.Location = location
			}
			if flags.Changed("id") {
				p.ShortID = shortID
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "New short ID")
	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&location, "location", "", "New site location")

	return cmd
}

// projectStateCmd builds the commands that act on one resolved project and
// report the outcome with a past-tense verb.
func projectStateCmd(app *App, use, short, done string, act func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			if err := act(cmd, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s project %s\n", done, p.DisplayID())
			return nil
		},
	}
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return projectStateCmd(app, "archive", "Archive a project", "Archived",
		func(cmd *cobra.Command, id string) error { return app.Projects.Archive(cmd.Context(), id) })
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return projectStateCmd(app, "unarchive", "Restore an archived project", "Unarchived",
		func(cmd *cobra.Command, id string) error { return app.Projects.Unarchive(cmd.Context(), id) })
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool
	cmd := projectStateCmd(app, "rm", "Delete a project with its items and reports", "Deleted",
		func(cmd *cobra.Command, id string) error { return app.Projects.Delete(cmd.Context(), id, force) })
	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the project is not archived")
	return cmd
}
