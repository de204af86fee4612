package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// ValidateCourse checks imported course content before conversion.
// Returns every problem found, each prefixed with its JSON path.
func ValidateCourse(in domain.CourseInput) []error {
	if err := in.Validate(); err != nil {
		return []error{err}
	}
	switch in.Format {
	case domain.FormatLegacy:
		return validateLegacy(in.Legacy)
	default:
		return validateCurrent(in.Current)
	}
}

func validateCurrent(c *domain.CourseContent) []error {
	var errs []error

	errs = append(errs, validatePage("welcomePage", &c.WelcomePage)...)
	errs = append(errs, validatePage("learningObjectivesPage", &c.LearningObjectivesPage)...)

	if len(c.Topics) == 0 {
		errs = append(errs, fmt.Errorf("topics: at least one topic is required"))
	}
	ids := make(map[string]bool)
	for i, t := range c.Topics {
		prefix := fmt.Sprintf("topics[%d]", i)
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.ID != "" {
			if ids[t.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, t.ID))
			}
			ids[t.ID] = true
		}
		if t.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s.duration must not be negative", prefix))
		}
		errs = append(errs, validateMedia(prefix, t.Media)...)
		if t.KnowledgeCheck != nil {
			errs = append(errs, validateQuestions(prefix+".knowledgeCheck", t.KnowledgeCheck.Questions)...)
		}
	}

	errs = append(errs, validatePassMark("assessment.passMark", c.Assessment.PassMark)...)
	errs = append(errs, validateQuestions("assessment", c.Assessment.Questions)...)
	return errs
}

func validateLegacy(c *domain.LegacyCourseContent) []error {
	var errs []error

	errs = append(errs, validatePage("welcomePage", &c.WelcomePage)...)
	errs = append(errs, validatePage("learningObjectivesPage", &c.LearningObjectivesPage)...)

	if len(c.Activities) == 0 {
		errs = append(errs, fmt.Errorf("activities: at least one activity is required"))
	}
	ids := make(map[string]bool)
	for i, a := range c.Activities {
		prefix := fmt.Sprintf("activities[%d]", i)
		if strings.TrimSpace(a.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if a.ID != "" {
			if ids[a.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, a.ID))
			}
			ids[a.ID] = true
		}
		errs = append(errs, validateMedia(prefix, a.Media)...)
	}

	errs = append(errs, validatePassMark("quiz.passMark", c.Quiz.PassMark)...)
	errs = append(errs, validateQuestions("quiz", c.Quiz.Questions)...)
	return errs
}

func validatePage(prefix string, p *domain.Page) []error {
	var errs []error
	if p.Duration < 0 {
		errs = append(errs, fmt.Errorf("%s.duration must not be negative", prefix))
	}
	return append(errs, validateMedia(prefix, p.Media)...)
}

func validatePassMark(field string, pm int) []error {
	if pm < 0 || pm > 100 {
		return []error{fmt.Errorf("%s: %d outside 0-100", field, pm)}
	}
	return nil
}

func validateMedia(prefix string, media []domain.Media) []error {
	var errs []error
	for i, m := range media {
		p := fmt.Sprintf("%s.media[%d]", prefix, i)
		if !domain.ValidMediaTypes[string(m.Type)] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", p, m.Type))
		}
		if m.URL == "" && m.StorageID == "" && m.EmbedURL == "" {
			errs = append(errs, fmt.Errorf("%s: one of url, storageId or embedUrl is required", p))
		}
		if m.ClipStart != nil && m.ClipEnd != nil && *m.ClipEnd <= *m.ClipStart {
			errs = append(errs, fmt.Errorf("%s: clipEnd (%d) must be after clipStart (%d)", p, *m.ClipEnd, *m.ClipStart))
		}
	}
	return errs
}

func validateQuestions(prefix string, questions []domain.Question) []error {
	var errs []error
	for i, q := range questions {
		p := fmt.Sprintf("%s.questions[%d]", prefix, i)
		if strings.TrimSpace(q.Question) == "" {
			errs = append(errs, fmt.Errorf("%s.question is required", p))
		}
		if !domain.ValidQuestionTypes[string(q.Type)] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", p, q.Type))
			continue
		}
		switch q.Type {
		case domain.QuestionMultipleChoice:
			if len(q.Options) < 2 {
				errs = append(errs, fmt.Errorf("%s.options: multiple-choice needs at least 2 options", p))
			} else if !contains(q.Options, q.CorrectAnswer) {
				errs = append(errs, fmt.Errorf("%s.correctAnswer: %q is not one of the options", p, q.CorrectAnswer))
			}
		case domain.QuestionTrueFalse:
			a := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
			if a != "true" && a != "false" {
				errs = append(errs, fmt.Errorf("%s.correctAnswer: true-false answer must be true or false, got %q", p, q.CorrectAnswer))
			}
		case domain.QuestionFillInBlank:
			if strings.TrimSpace(q.CorrectAnswer) == "" {
				errs = append(errs, fmt.Errorf("%s.correctAnswer is required", p))
			}
		}
	}
	return errs
}

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
