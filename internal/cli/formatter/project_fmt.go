package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/prompt"
	"github.com/alexanderramin/scormbuilder/internal/service"
)

const listProgressBarWidth = 7

// FormatProjectList renders the project listing table.
func FormatProjectList(projects []service.ProjectSummary) string {
	headers := []string{"ID", "NAME", "STEP", "PROGRESS", "TOPICS", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, sum := range projects {
		p := sum.Project
		topics := Dim("--")
		if sum.Metadata != nil {
			topics = StyleFg.Render(fmt.Sprint(len(sum.Metadata.Topics)))
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			p.CurrentStep.Label(),
			RenderProgress(StepProgress(p.VisitedSteps), listProgressBarWidth),
			topics,
			Dim(HumanTimestamp(p.UpdatedAt)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProjectDetail renders one project with its seed summary.
func FormatProjectDetail(p *domain.Project, meta *domain.CourseMetadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold(p.Name), Dim(p.ID))
	fmt.Fprintf(&b, "Created  %s\n", HumanTimestamp(p.CreatedAt))
	fmt.Fprintf(&b, "Updated  %s\n", HumanTimestamp(p.UpdatedAt))
	if meta != nil {
		fmt.Fprintf(&b, "Title    %s\n", meta.Title)
		fmt.Fprintf(&b, "Level    %s\n", Difficulty(meta.Difficulty, prompt.Level(meta.Difficulty)))
		if meta.Template != "" && meta.Template != domain.TemplateNone {
			fmt.Fprintf(&b, "Template %s\n", meta.Template)
		}
		if len(meta.Topics) > 0 {
			b.WriteString("\n" + Header("Topics") + "\n")
			for i, topic := range meta.Topics {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, topic)
			}
		}
	}
	b.WriteString("\n" + Header("Steps") + "\n")
	b.WriteString(RenderSteps(p.CurrentStep, p.VisitedSteps))
	return RenderBox("Project", strings.TrimRight(b.String(), "\n"))
}
