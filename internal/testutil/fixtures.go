package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/google/uuid"
)

func NewTestProject(name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:           uuid.New().String(),
		Name:         name,
		CurrentStep:  domain.StepSeed,
		VisitedSteps: domain.StepSet{domain.StepSeed: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestSeed returns seed data with the given custom topics, or "PPE" and
// "Hazards" when none are passed.
func NewTestSeed(title string, topics ...string) domain.CourseSeedData {
	if len(topics) == 0 {
		topics = []string{"PPE", "Hazards"}
	}
	return domain.CourseSeedData{
		CourseTitle:  title,
		Difficulty:   3,
		Template:     domain.TemplateNone,
		CustomTopics: topics,
	}
}

// Course options
type CourseOption func(*domain.CourseContent)

// WithTopics replaces the topics with one per title, ids topic-0..n.
func WithTopics(titles ...string) CourseOption {
	return func(c *domain.CourseContent) {
		c.Topics = make([]domain.Topic, len(titles))
		for i, title := range titles {
			c.Topics[i] = domain.Topic{
				ID:      fmt.Sprintf("topic-%d", i),
				Title:   title,
				Content: fmt.Sprintf("<p>%s content.</p>", title),
			}
		}
	}
}

func WithPassMark(pm int) CourseOption {
	return func(c *domain.CourseContent) {
		c.Assessment.PassMark = pm
	}
}

func WithAssessmentQuestion(q domain.Question) CourseOption {
	return func(c *domain.CourseContent) {
		c.Assessment.Questions = append(c.Assessment.Questions, q)
	}
}

// WithKnowledgeCheck gives the topic at index i a single true/false
// question.
func WithKnowledgeCheck(i int) CourseOption {
	return func(c *domain.CourseContent) {
		t := &c.Topics[i]
		t.KnowledgeCheck = &domain.KnowledgeCheck{Questions: []domain.Question{{
			ID:            t.ID + "-kc",
			Question:      "Is " + t.Title + " important?",
			Type:          domain.QuestionTrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
			Feedback:      domain.Feedback{Correct: "Right.", Incorrect: "Not quite."},
		}}}
	}
}

func WithTopicMedia(i int, media ...domain.Media) CourseOption {
	return func(c *domain.CourseContent) {
		c.Topics[i].Media = append(c.Topics[i].Media, media...)
	}
}

// NewTestCourse returns a minimal valid course: welcome, objectives, two
// topics and an empty assessment with pass mark 80.
func NewTestCourse(opts ...CourseOption) *domain.CourseContent {
	c := &domain.CourseContent{
		WelcomePage:            domain.Page{ID: domain.PageIDWelcome, Title: "Welcome", Content: "<p>Welcome.</p>"},
		LearningObjectivesPage: domain.Page{ID: domain.PageIDObjectives, Title: "Learning Objectives"},
		Objectives:             []string{"Understand the basics"},
		Assessment:             domain.Assessment{Questions: []domain.Question{}, PassMark: 80},
	}
	WithTopics("PPE", "Hazards")(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}
