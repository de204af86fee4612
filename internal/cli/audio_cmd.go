package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/spf13/cobra"
)

// maxNarrationZip bounds an uploaded narration archive.
const maxNarrationZip = 1 << 30

func newAudioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Step 5: narration voice settings and audio uploads",
	}
	cmd.AddCommand(
		newAudioSettingsCmd(app),
		newAudioImportCmd(app),
	)
	return cmd
}

// audioBase returns the settings to edit: the course's own once the audio
// step was visited, otherwise the configured defaults.
func (a *App) audioBase(st wizard.State) domain.AudioSettings {
	if st.Visited[domain.StepAudio] || a.Audio.Voice == "" {
		return st.Audio
	}
	return a.Audio
}

func validateAudio(s domain.AudioSettings) error {
	if s.Speed < 0.25 || s.Speed > 4 {
		return fmt.Errorf("speed %.2f outside 0.25-4", s.Speed)
	}
	if s.Pitch < 0.25 || s.Pitch > 4 {
		return fmt.Errorf("pitch %.2f outside 0.25-4", s.Pitch)
	}
	return nil
}

// enterAudio moves a course sitting at the media step into the audio step.
func (a *App) enterAudio(ctx context.Context, acc *wizard.Accumulator) error {
	st := acc.State()
	if st.Current != domain.StepMedia {
		return requireStep(acc, domain.StepAudio)
	}
	settings := a.audioBase(st)
	_, err := enterStep(ctx, acc, domain.StepAudio, wizard.StepPayload{Audio: &settings})
	return err
}

func newAudioSettingsCmd(app *App) *cobra.Command {
	var (
		voice string
		speed float64
		pitch float64
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Set the narration voice, speed and pitch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}

			settings := app.audioBase(acc.State())
			f := cmd.Flags()
			if f.Changed("voice") {
				settings.Voice = voice
			}
			if f.Changed("speed") {
				settings.Speed = speed
			}
			if f.Changed("pitch") {
				settings.Pitch = pitch
			}
			if err := validateAudio(settings); err != nil {
				return err
			}
			if _, err := enterStep(ctx, acc, domain.StepAudio, wizard.StepPayload{Audio: &settings}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Narration: %s, speed %.2f, pitch %.2f", settings.Voice, settings.Speed, settings.Pitch)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&voice, "voice", "", "TTS voice name, e.g. en-US-JennyNeural")
	f.Float64Var(&speed, "speed", 1.0, "Speech rate (0.25-4)")
	f.Float64Var(&pitch, "pitch", 1.0, "Pitch multiplier (0.25-4)")
	return cmd
}

func newAudioImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <narration.zip>",
		Short: "Replace all narration with the files of a ZIP (NNNN-name.mp3 / .vtt, numbered by page)",
		Long: `The ZIP holds one audio file per page, optionally with a WebVTT caption,
numbered in page order: 0001 is the welcome page, 0002 the objectives
page, 0003 the first topic and so on. Importing replaces every audio and
caption file already attached to the course.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.Size() > maxNarrationZip {
				return fmt.Errorf("%s is larger than %s", args[0], formatter.Size(maxNarrationZip))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			if err := app.enterAudio(ctx, acc); err != nil {
				return err
			}
			if existing := narrationCount(acc.State().Media); existing > 0 {
				ok, err := app.confirmAction(yes, "replace narration", fmt.Sprintf("Replace %d existing audio and caption files?", existing), "Replace")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}
			res, err := app.Media.ImportNarration(ctx, acc, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Imported %d audio and %d caption files for %d pages", res.Audio, res.Captions, res.Pages)))
			for _, w := range res.Warnings {
				fmt.Fprintln(out, formatter.Warning("skipped "+w))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace existing narration without asking")
	return cmd
}

func narrationCount(lib domain.MediaLibrary) int {
	return len(lib.Audio) + len(lib.Captions)
}
