package cli

import (
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/spf13/cobra"
)

func newGotoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <step>",
		Short: "Jump to a visited step (name or number 0-6)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := domain.ParseStep(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			if !acc.NavigateToStep(step) {
				return fmt.Errorf("step %s has not been reached yet; the course is at %s", step, acc.CurrentStep())
			}
			if err := acc.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Now at "+step.Label()))
			return nil
		},
	}
}

func newBackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Go back one step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			step := acc.Back()
			if err := acc.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Now at "+step.Label()))
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the wizard position and course summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := app.openCourse(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(acc.State()))
			return nil
		},
	}
}
