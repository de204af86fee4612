package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/llm"
	"github.com/alexanderramin/scormbuilder/internal/prompt"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/spf13/cobra"
)

func newPromptCmd(app *App) *cobra.Command {
	var (
		out      string
		schema   bool
		generate bool
		jsonOut  string
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Step 2: generate the AI prompt for the course JSON",
		Long: `Prompt builds the instructions for an AI assistant from the course seed.
Paste the answer into a file and run 'scormbuilder import-json <file>'.
With --generate the prompt is sent to the model configured under [llm]
and its answer is imported directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				fmt.Fprint(cmd.OutOrStdout(), prompt.Schema())
				return nil
			}

			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			st := acc.State()
			if st.Seed == nil {
				return fmt.Errorf("%w: seed the course first", wizard.ErrIllegalTransition)
			}
			text, err := prompt.Build(*st.Seed)
			if err != nil {
				return err
			}
			if _, err := enterStep(ctx, acc, domain.StepJSON, wizard.StepPayload{Prompt: &text}); err != nil {
				return err
			}

			if generate {
				if app.Drafts == nil {
					return llm.ErrDisabled
				}
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Drafting course JSON..."))
				data, err := llm.DraftCourse(ctx, app.Drafts, text)
				if err != nil {
					return err
				}
				if jsonOut != "" {
					if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
						return fmt.Errorf("writing course JSON: %w", err)
					}
				}
				content, err := app.Imports.ImportJSON(ctx, acc, data)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, formatter.Success(fmt.Sprintf("Drafted and imported %d topics, %d assessment questions", len(content.Topics), len(content.Assessment.Questions))))
				fmt.Fprintf(w, "  Pages: %s\n", strings.Join(content.PageIDs(), ", "))
				return nil
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
					return fmt.Errorf("writing prompt: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Prompt written to "+out))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Next: paste the AI's answer into a file and run 'scormbuilder import-json <file>'"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the prompt to a file instead of stdout")
	cmd.Flags().BoolVar(&schema, "schema", false, "Print the example course JSON only")
	cmd.Flags().BoolVar(&generate, "generate", false, "Send the prompt to the configured model and import its answer")
	cmd.Flags().StringVar(&jsonOut, "save-json", "", "With --generate, also write the drafted JSON to this file")
	return cmd
}
