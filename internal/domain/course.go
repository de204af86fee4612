package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssessmentLocked rejects removal of a final assessment question.
var ErrAssessmentLocked = errors.New("assessment questions cannot be removed")

// CourseSeedData holds the fundamentals entered on the first wizard step.
type CourseSeedData struct {
	CourseTitle    string   `json:"courseTitle" yaml:"courseTitle" validate:"required"`
	Difficulty     int      `json:"difficulty" yaml:"difficulty" validate:"omitempty,min=1,max=5"`
	Template       string   `json:"template" yaml:"template"`
	CustomTopics   []string `json:"customTopics" yaml:"customTopics"`
	TemplateTopics []string `json:"templateTopics" yaml:"templateTopics"`
}

// Topics returns the non-blank custom topics, falling back to the template
// topics when no custom topic was entered.
func (s CourseSeedData) Topics() []string {
	if custom := nonBlank(s.CustomTopics); len(custom) > 0 {
		return custom
	}
	return nonBlank(s.TemplateTopics)
}

func nonBlank(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type Media struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	StorageID string    `json:"storageId,omitempty"`
	EmbedURL  string    `json:"embedUrl,omitempty"`
	ClipStart *int      `json:"clipStart,omitempty"`
	ClipEnd   *int      `json:"clipEnd,omitempty"`
}

// IsExternal reports whether the media is referenced by an absolute URL
// rather than stored bytes.
func (m Media) IsExternal() bool {
	if m.StorageID != "" {
		return false
	}
	u := strings.ToLower(m.URL)
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "//")
}

// Page is the welcome or learning-objectives page.
type Page struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Narration string  `json:"narration"`
	Duration  int     `json:"duration"`
	Media     []Media `json:"media"`
}

type Topic struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	Narration        string          `json:"narration"`
	ImageKeywords    []string        `json:"imageKeywords"`
	ImagePrompts     []string        `json:"imagePrompts"`
	VideoSearchTerms []string        `json:"videoSearchTerms"`
	Duration         int             `json:"duration"`
	KnowledgeCheck   *KnowledgeCheck `json:"knowledgeCheck,omitempty"`
	Media            []Media         `json:"media"`
}

// HasKnowledgeCheck reports whether the topic carries at least one question.
func (t Topic) HasKnowledgeCheck() bool {
	return t.KnowledgeCheck != nil && len(t.KnowledgeCheck.Questions) > 0
}

type KnowledgeCheck struct {
	Questions []Question `json:"questions"`
}

type Feedback struct {
	Correct   string `json:"correct"`
	Incorrect string `json:"incorrect"`
}

type Question struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Feedback      Feedback     `json:"feedback"`
}

// Assessment is the final graded question set. Unlike knowledge checks its
// questions cannot be removed by the user.
type Assessment struct {
	Questions []Question `json:"questions"`
	PassMark  int        `json:"passMark"`
}

type CourseContent struct {
	WelcomePage            Page       `json:"welcomePage"`
	LearningObjectivesPage Page       `json:"learningObjectivesPage"`
	Objectives             []string   `json:"objectives"`
	Topics                 []Topic    `json:"topics"`
	Assessment             Assessment `json:"assessment"`
}

// TopicByID returns a pointer into c.Topics, or nil.
func (c *CourseContent) TopicByID(id string) *Topic {
	for i := range c.Topics {
		if c.Topics[i].ID == id {
			return &c.Topics[i]
		}
	}
	return nil
}

// RemoveKnowledgeCheckQuestion drops one knowledge-check question from a
// topic. A topic left without questions loses its knowledge check.
func (c *CourseContent) RemoveKnowledgeCheckQuestion(topicID, questionID string) error {
	if topicID == PageIDAssessment {
		return ErrAssessmentLocked
	}
	t := c.TopicByID(topicID)
	if t == nil {
		return fmt.Errorf("unknown topic %q", topicID)
	}
	if t.KnowledgeCheck != nil {
		for i, q := range t.KnowledgeCheck.Questions {
			if q.ID != questionID {
				continue
			}
			if len(t.KnowledgeCheck.Questions) == 1 {
				t.KnowledgeCheck = nil
				return nil
			}
			kept := make([]Question, 0, len(t.KnowledgeCheck.Questions)-1)
			kept = append(kept, t.KnowledgeCheck.Questions[:i]...)
			kept = append(kept, t.KnowledgeCheck.Questions[i+1:]...)
			t.KnowledgeCheck = &KnowledgeCheck{Questions: kept}
			return nil
		}
	}
	for _, q := range c.Assessment.Questions {
		if q.ID == questionID {
			return ErrAssessmentLocked
		}
	}
	return fmt.Errorf("question %q not found in topic %q", questionID, topicID)
}

// MediaOwner returns the media slice for a page id ("welcome",
// "objectives" or a topic id), or nil when the id is unknown.
func (c *CourseContent) MediaOwner(pageID string) *[]Media {
	switch pageID {
	case PageIDWelcome:
		return &c.WelcomePage.Media
	case PageIDObjectives:
		return &c.LearningObjectivesPage.Media
	}
	if t := c.TopicByID(pageID); t != nil {
		return &t.Media
	}
	return nil
}

// PageIDs returns the ids of every media-bearing page in navigation order.
func (c *CourseContent) PageIDs() []string {
	ids := make([]string, 0, len(c.Topics)+2)
	ids = append(ids, PageIDWelcome, PageIDObjectives)
	for _, t := range c.Topics {
		ids = append(ids, t.ID)
	}
	return ids
}

const (
	PageIDWelcome    = "welcome"
	PageIDObjectives = "objectives"
	PageIDAssessment = "assessment"
)

// Activity is a topic-like block of the legacy content shape.
type Activity struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Narration string  `json:"narration"`
	Duration  int     `json:"duration"`
	Media     []Media `json:"media"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
	PassMark  int        `json:"passMark"`
}

// LegacyCourseContent is the pre-knowledge-check project shape, still
// accepted as package input.
type LegacyCourseContent struct {
	WelcomePage            Page       `json:"welcomePage"`
	LearningObjectivesPage Page       `json:"learningObjectivesPage"`
	Objectives             []string   `json:"objectives"`
	Activities             []Activity `json:"activities"`
	Quiz                   Quiz       `json:"quiz"`
}
