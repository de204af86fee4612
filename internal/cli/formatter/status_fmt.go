package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/prompt"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

const statusProgressBarWidth = 14

// FormatStatus renders the wizard dashboard for an open course.
func FormatStatus(st wizard.State) string {
	var b strings.Builder

	name := "(unsaved course)"
	if st.Project != nil {
		name = st.Project.Name
	}
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(name), RenderProgress(StepProgress(st.Visited), statusProgressBarWidth))
	b.WriteString(RenderSteps(st.Current, st.Visited))

	if st.Seed != nil {
		b.WriteString("\n" + Header("Seed") + "\n")
		fmt.Fprintf(&b, "  Title      %s\n", st.Seed.CourseTitle)
		fmt.Fprintf(&b, "  Difficulty %s\n", Difficulty(st.Seed.Difficulty, prompt.Level(st.Seed.Difficulty)))
		fmt.Fprintf(&b, "  Topics     %s\n", strings.Join(st.Seed.Topics(), ", "))
	}

	if st.Content != nil {
		b.WriteString("\n" + Header("Content") + "\n")
		b.WriteString(contentTable(st.Content))
		fmt.Fprintf(&b, "  Assessment %d questions, pass mark %d%%\n", len(st.Content.Assessment.Questions), st.Content.Assessment.PassMark)
	}

	if st.Current >= domain.StepAudio || st.Visited[domain.StepAudio] {
		b.WriteString("\n" + Header("Narration") + "\n")
		fmt.Fprintf(&b, "  Voice %s  speed %.2f  pitch %.2f\n", st.Audio.Voice, st.Audio.Speed, st.Audio.Pitch)
		fmt.Fprintf(&b, "  %d audio, %d caption files\n", len(st.Media.Audio), len(st.Media.Captions))
	}

	if st.Visited[domain.StepScorm] {
		b.WriteString("\n" + Header("Package") + "\n")
		fmt.Fprintf(&b, "  SCORM %s, completion %s, passing score %d%%\n", st.Scorm.Version, st.Scorm.CompletionCriteria, st.Scorm.PassingScore)
	}

	return RenderBox("Status", strings.TrimRight(b.String(), "\n"))
}

func contentTable(c *domain.CourseContent) string {
	headers := []string{"PAGE", "TITLE", "MEDIA", "CHECK"}
	rows := [][]string{
		{domain.PageIDWelcome, c.WelcomePage.Title, mediaCount(c.WelcomePage.Media), Dim("--")},
		{domain.PageIDObjectives, c.LearningObjectivesPage.Title, mediaCount(c.LearningObjectivesPage.Media), Dim("--")},
	}
	for _, t := range c.Topics {
		check := Dim("--")
		if t.KnowledgeCheck != nil && len(t.KnowledgeCheck.Questions) > 0 {
			check = StyleGreen.Render(fmt.Sprintf("%d q", len(t.KnowledgeCheck.Questions)))
		}
		rows = append(rows, []string{t.ID, t.Title, mediaCount(t.Media), check})
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(RenderTable(headers, rows), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func mediaCount(media []domain.Media) string {
	if len(media) == 0 {
		return Dim("0")
	}
	counts := map[domain.MediaType]int{}
	for _, m := range media {
		counts[m.Type]++
	}
	var parts []string
	for _, t := range []domain.MediaType{domain.MediaImage, domain.MediaVideo, domain.MediaAudio, domain.MediaCaption} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
		}
	}
	return strings.Join(parts, ", ")
}
