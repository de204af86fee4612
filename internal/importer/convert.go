package importer

import (
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
)

// Convert turns validated input into current-shape content ready for the
// wizard. Call ValidateCourse first; Convert assumes the input is valid.
// Topics get stable ids when absent, questions get "<owner>-q<n>" ids.
func Convert(in domain.CourseInput) (*domain.CourseContent, error) {
	c, err := scorm.Normalize(in)
	if err != nil {
		return nil, err
	}

	c.WelcomePage.ID = domain.PageIDWelcome
	c.LearningObjectivesPage.ID = domain.PageIDObjectives
	if c.Objectives == nil {
		c.Objectives = []string{}
	}

	for i := range c.Topics {
		t := &c.Topics[i]
		if t.KnowledgeCheck == nil {
			continue
		}
		qs := append([]domain.Question(nil), t.KnowledgeCheck.Questions...)
		assignQuestionIDs(t.ID, qs)
		t.KnowledgeCheck = &domain.KnowledgeCheck{Questions: qs}
	}

	qs := append([]domain.Question{}, c.Assessment.Questions...)
	assignQuestionIDs(domain.PageIDAssessment, qs)
	c.Assessment.Questions = qs
	return c, nil
}

func assignQuestionIDs(owner string, qs []domain.Question) {
	seen := make(map[string]bool, len(qs))
	for i := range qs {
		id := qs[i].ID
		if id == "" || seen[id] {
			id = fmt.Sprintf("%s-q%d", owner, i+1)
		}
		seen[id] = true
		qs[i].ID = id
	}
}
