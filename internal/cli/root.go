package cli

import (
	"github.com/spf13/cobra"
)

// skipBoot marks commands that run without config, database or services.
const skipBoot = "skip-boot"

// NewRootCmd creates the top-level "scormbuilder" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "scormbuilder",
		Short: "Build SCORM 1.2 course packages step by step",
		Long: `scormbuilder walks a course through seven steps: seed, prompt, json,
media, audio, activities and scorm. Each command works on the most
recently updated project unless --project names another one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Boot == nil || cmd.Annotations[skipBoot] == "true" {
				return nil
			}
			return app.Boot(cmd.Context(), app.opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			app.stopAutosave()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.opts.ConfigPath, "config", "", "Config file (default ~/.config/scormbuilder/config.toml)")
	flags.StringVar(&app.opts.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flags.StringVarP(&app.opts.Project, "project", "p", "", "Project id, id prefix or name (default: most recently updated)")

	root.AddCommand(
		newProjectCmd(app),
		newSeedCmd(app),
		newPromptCmd(app),
		newImportJSONCmd(app),
		newMediaCmd(app),
		newAudioCmd(app),
		newActivitiesCmd(app),
		newGotoCmd(app),
		newBackCmd(app),
		newStatusCmd(app),
		newBuildCmd(app),
		newValidateCmd(),
		newTemplatesCmd(app),
	)
	return root
}
