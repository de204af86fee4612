package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage course projects",
	}
	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectDeleteCmd(app),
		newProjectExportCmd(app),
		newProjectImportCmd(app),
		newProjectFilesCmd(app),
		newProjectRecoverCmd(app),
		newProjectDeleteFileCmd(app),
	)
	return cmd
}

// projectRef prefers a positional reference over the --project flag.
func (a *App) projectRef(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return a.opts.Project
}

func newProjectCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty project at the seed step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created project %s %s", formatter.Bold(p.Name), formatter.Dim(p.ID))))
			return nil
		},
	}
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
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
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [project]",
		Short: "Show a project's seed and wizard position",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, app.projectRef(args))
			if err != nil {
				return err
			}
			meta, err := projectMetadata(ctx, app, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, meta))
			return nil
		},
	}
}

func projectMetadata(ctx context.Context, app *App, id string) (*domain.CourseMetadata, error) {
	list, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sum := range list {
		if sum.Project.ID == id {
			return sum.Metadata, nil
		}
	}
	return nil, nil
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project with its content and media",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, app.projectRef(args))
			if err != nil {
				return err
			}
			ok, err := app.confirmAction(yes, fmt.Sprintf("delete %q", p.Name), fmt.Sprintf("Delete %s and all of its media?", p.Name), "Delete")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted project "+p.Name))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newProjectExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [project]",
		Short: "Write a project to a .scormproj file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, app.projectRef(args))
			if err != nil {
				return err
			}
			res, err := app.Projects.Export(ctx, p.ID, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Exported %s to %s (%d media files)", p.Name, res.Path, res.MediaCount)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: <projects dir>/<name>.scormproj)")
	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.scormproj>",
		Short: "Import a project file as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Imported %s %s at step %s", formatter.Bold(p.Name), formatter.Dim(p.ID), p.CurrentStep.Label())))
			return nil
		},
	}
}

func newProjectFilesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List exported project files in the projects directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := app.Projects.ListFiles(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No project files found.")
				return nil
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				backup := formatter.Dim("-")
				if f.HasBackup {
					backup = "yes"
				}
				rows = append(rows, []string{f.Path, backup})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"FILE", "BACKUP"}, rows))
			return nil
		},
	}
}

func newProjectRecoverCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "recover <file.scormproj>",
		Short: "Replace a project file with the backup kept by its previous save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ok, err := app.confirmAction(yes, "overwrite "+path, fmt.Sprintf("Overwrite %s with its backup?", path), "Recover")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
			if err := app.Projects.RecoverFile(cmd.Context(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Recovered "+path+" from backup"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Recover without asking")
	return cmd
}

func newProjectDeleteFileCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-file <file.scormproj>",
		Short: "Delete a project file with its backup and media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ok, err := app.confirmAction(yes, "delete "+path, fmt.Sprintf("Delete %s with its backup and media?", path), "Delete")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
			if err := app.Projects.DeleteFile(cmd.Context(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted "+path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
