package scorm

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// Normalize converts either input shape into current course content. The
// result is a copy; topics whose id is blank, duplicated or collides
// with a fixed page get "topic-<n>".
func Normalize(in domain.CourseInput) (*domain.CourseContent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out domain.CourseContent
	switch in.Format {
	case domain.FormatCurrent:
		c := in.Current
		out = domain.CourseContent{
			WelcomePage:            c.WelcomePage,
			LearningObjectivesPage: c.LearningObjectivesPage,
			Objectives:             append([]string(nil), c.Objectives...),
			Topics:                 append([]domain.Topic(nil), c.Topics...),
			Assessment:             c.Assessment,
		}
	case domain.FormatLegacy:
		c := in.Legacy
		out = domain.CourseContent{
			WelcomePage:            c.WelcomePage,
			LearningObjectivesPage: c.LearningObjectivesPage,
			Objectives:             append([]string(nil), c.Objectives...),
			Topics:                 make([]domain.Topic, len(c.Activities)),
			Assessment:             domain.Assessment{Questions: c.Quiz.Questions, PassMark: c.Quiz.PassMark},
		}
		for i, a := range c.Activities {
			out.Topics[i] = domain.Topic{
				ID:        a.ID,
				Title:     a.Title,
				Content:   a.Content,
				Narration: a.Narration,
				Duration:  a.Duration,
				Media:     a.Media,
			}
		}
	default:
		return nil, fmt.Errorf("course input: unknown format %q", in.Format)
	}

	seen := map[string]bool{
		domain.PageIDWelcome:    true,
		domain.PageIDObjectives: true,
		domain.PageIDAssessment: true,
	}
	for i := range out.Topics {
		id := strings.TrimSpace(out.Topics[i].ID)
		if id == "" || seen[id] {
			id = fmt.Sprintf("topic-%d", i)
			for n := 2; seen[id]; n++ {
				id = fmt.Sprintf("topic-%d-%d", i, n)
			}
		}
		seen[id] = true
		out.Topics[i].ID = id
	}
	if out.WelcomePage.Title == "" {
		out.WelcomePage.Title = "Welcome"
	}
	if out.LearningObjectivesPage.Title == "" {
		out.LearningObjectivesPage.Title = "Learning Objectives"
	}
	return &out, nil
}
