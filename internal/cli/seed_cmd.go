package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/prompt"
	"github.com/alexanderramin/scormbuilder/internal/template"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// seedInput is the editable form of the seed step.
type seedInput struct {
	Title      string
	Difficulty int
	Template   string
	Topics     string // one per line
}

func (in seedInput) seed(reg *template.Registry) (domain.CourseSeedData, error) {
	seed := domain.CourseSeedData{
		CourseTitle:  strings.TrimSpace(in.Title),
		Difficulty:   in.Difficulty,
		Template:     domain.TemplateNone,
		CustomTopics: splitTopics(in.Topics),
	}
	name := strings.TrimSpace(in.Template)
	if name != "" && !strings.EqualFold(name, domain.TemplateNone) {
		if reg == nil {
			return seed, fmt.Errorf("template %q: no templates loaded", name)
		}
		preset, err := reg.Resolve(name)
		if err != nil {
			return seed, err
		}
		preset.ApplyToSeed(&seed)
	}
	return seed, nil
}

func splitTopics(s string) []string {
	var out []string
	for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == ';' }) {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func seedInputFrom(seed *domain.CourseSeedData) seedInput {
	if seed == nil {
		return seedInput{Difficulty: 3, Template: domain.TemplateNone}
	}
	return seedInput{
		Title:      seed.CourseTitle,
		Difficulty: seed.Difficulty,
		Template:   domain.CoalesceStr(seed.Template, domain.TemplateNone),
		Topics:     strings.Join(seed.CustomTopics, "\n"),
	}
}

func newSeedCmd(app *App) *cobra.Command {
	var (
		in          seedInput
		topics      []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Step 1: set the course title, difficulty and topics",
		Long: `Seed starts a new course, or re-seeds the project named by --project.
Without --title on a terminal an interactive form is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			acc := app.Projects.NewCourse()
			if app.opts.Project != "" {
				opened, err := app.openCourse(ctx)
				if err != nil {
					return err
				}
				acc = opened
			}

			reg, warnings, err := app.loadTemplates()
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(w))
			}

			flags := cmd.Flags()
			if interactive || (!flags.Changed("title") && app.interactive()) {
				base := seedInputFrom(acc.State().Seed)
				mergeSeedFlags(&base, in, topics, flags.Changed)
				in = base
				if err := seedForm(&in, reg).Run(); err != nil {
					return err
				}
			} else {
				in.Topics = strings.Join(topics, "\n")
			}

			seed, err := in.seed(reg)
			if err != nil {
				return err
			}
			if err := acc.SubmitSeed(ctx, seed); err != nil {
				return err
			}

			st := acc.State()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Seeded %s %s", formatter.Bold(st.Seed.CourseTitle), formatter.Dim(acc.ProjectID()))))
			fmt.Fprintf(out, "  %s, %d topics: %s\n", prompt.Level(st.Seed.Difficulty), len(st.Seed.Topics()), strings.Join(st.Seed.Topics(), ", "))
			fmt.Fprintln(out, formatter.Dim("Next: scormbuilder prompt"))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Title, "title", "t", "", "Course title")
	f.IntVarP(&in.Difficulty, "difficulty", "d", 0, "Difficulty 1-5 (default 3)")
	f.StringVar(&in.Template, "template", "", "Template preset id, name or number (see 'scormbuilder templates')")
	f.StringArrayVar(&topics, "topic", nil, "Custom topic (repeatable)")
	f.BoolVarP(&interactive, "interactive", "i", false, "Always show the form")
	return cmd
}

// mergeSeedFlags lets explicit flags override values loaded from an
// existing seed before the form opens.
func mergeSeedFlags(base *seedInput, flagged seedInput, topics []string, changed func(string) bool) {
	if changed("title") {
		base.Title = flagged.Title
	}
	if changed("difficulty") {
		base.Difficulty = flagged.Difficulty
	}
	if changed("template") {
		base.Template = flagged.Template
	}
	if changed("topic") {
		base.Topics = strings.Join(topics, "\n")
	}
}

func seedForm(in *seedInput, reg *template.Registry) *huh.Form {
	if in.Difficulty == 0 {
		in.Difficulty = 3
	}
	difficulty := make([]huh.Option[int], 0, 5)
	for d := 1; d <= 5; d++ {
		difficulty = append(difficulty, huh.NewOption(strconv.Itoa(d)+" "+prompt.Level(d), d))
	}
	templates := []huh.Option[string]{huh.NewOption(domain.TemplateNone, domain.TemplateNone)}
	if reg != nil {
		for _, e := range reg.List() {
			templates = append(templates, huh.NewOption(e.Preset.Name, e.Preset.Name))
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Course Title").
				Placeholder("Workplace Safety 101").
				Value(&in.Title).
				Validate(validateRequired("course title")),
			huh.NewSelect[int]().
				Title("Difficulty").
				Options(difficulty...).
				Value(&in.Difficulty),
			huh.NewSelect[string]().
				Title("Template").
				Description("Template topics are used when no custom topic is entered.").
				Options(templates...).
				Value(&in.Template),
			huh.NewText().
				Title("Custom Topics").
				Description("One per line").
				Value(&in.Topics),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// huhTheme styles forms with the formatter palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
