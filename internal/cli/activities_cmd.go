package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/spf13/cobra"
)

func newActivitiesCmd(app *App) *cobra.Command {
	var (
		dataFile string
		passMark int
	)

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Step 6: review activities and set the assessment pass mark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			st := acc.State()
			if st.Content == nil {
				return service.ErrNoContent
			}

			payload := wizard.StepPayload{}
			if dataFile != "" {
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return err
				}
				if !json.Valid(raw) {
					return fmt.Errorf("%s: not valid JSON", dataFile)
				}
				payload.Activities = raw
			}
			if cmd.Flags().Changed("pass-mark") {
				// The package reads its mastery score from the export settings.
				content := *st.Content
				content.Assessment.PassMark = passMark
				scormCfg := st.Scorm
				scormCfg.PassingScore = passMark
				payload.Content = &content
				payload.Scorm = &scormCfg
			}

			if _, err := enterStep(ctx, acc, domain.StepActivities, payload); err != nil {
				return err
			}
			printActivities(cmd, acc.State())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Next: scormbuilder build"))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "Activities JSON to store with the course")
	cmd.Flags().IntVar(&passMark, "pass-mark", 80, "Assessment pass mark (0-100)")
	cmd.AddCommand(newActivitiesListCmd(app), newActivitiesRemoveQuestionCmd(app))
	return cmd
}

func printActivities(cmd *cobra.Command, st wizard.State) {
	checks := 0
	for _, t := range st.Content.Topics {
		if t.KnowledgeCheck != nil {
			checks += len(t.KnowledgeCheck.Questions)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("%d knowledge-check questions, %d assessment questions, pass mark %d%%",
		checks, len(st.Content.Assessment.Questions), st.Content.Assessment.PassMark)))
}

func newActivitiesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List knowledge-check and assessment questions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := app.openCourse(cmd.Context())
			if err != nil {
				return err
			}
			st := acc.State()
			if st.Content == nil {
				return service.ErrNoContent
			}
			var rows [][]string
			for _, t := range st.Content.Topics {
				if t.KnowledgeCheck == nil {
					continue
				}
				for _, q := range t.KnowledgeCheck.Questions {
					rows = append(rows, []string{t.ID, q.ID, string(q.Type), q.Question})
				}
			}
			for _, q := range st.Content.Assessment.Questions {
				rows = append(rows, []string{domain.PageIDAssessment, q.ID, string(q.Type), q.Question})
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No questions.")
				return nil
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"PAGE", "ID", "TYPE", "QUESTION"}, rows))
			return nil
		},
	}
}

func newActivitiesRemoveQuestionCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove-question <topic> <question-id>",
		Aliases: []string{"rmq"},
		Short:   "Remove a knowledge-check question from a topic; assessment questions stay",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			topicID, questionID := args[0], args[1]

			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			if err := requireStep(acc, domain.StepActivities); err != nil {
				return err
			}
			st := acc.State()
			if st.Content == nil {
				return service.ErrNoContent
			}
			content := *st.Content
			content.Topics = append([]domain.Topic(nil), st.Content.Topics...)
			if err := content.RemoveKnowledgeCheckQuestion(topicID, questionID); err != nil {
				return err
			}

			ok, err := app.confirmAction(yes, "remove question "+questionID, fmt.Sprintf("Remove question %s from %s?", questionID, topicID), "Remove")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
			if _, err := enterStep(ctx, acc, domain.StepActivities, wizard.StepPayload{Content: &content}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Removed question %s from %s", questionID, topicID)))
			printActivities(cmd, acc.State())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking")
	return cmd
}
