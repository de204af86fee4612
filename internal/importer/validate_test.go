package importer

import (
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int { return &i }

func validMinimalCourse() *domain.CourseContent {
	return &domain.CourseContent{
		Topics:     []domain.Topic{{ID: "t1", Title: "PPE"}},
		Assessment: domain.Assessment{PassMark: 80},
	}
}

func errStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

func TestValidateCourse_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateCourse(domain.CurrentInput(validMinimalCourse())))
}

func TestValidateCourse_ValidFull(t *testing.T) {
	c := &domain.CourseContent{
		WelcomePage: domain.Page{Title: "Welcome", Media: []domain.Media{{ID: "m0", Type: domain.MediaImage, URL: "https://example.com/a.png"}}},
		Objectives:  []string{"Spot hazards"},
		Topics: []domain.Topic{
			{
				ID: "t1", Title: "PPE", Duration: 5,
				Media: []domain.Media{{ID: "v1", Type: domain.MediaVideo, URL: "https://youtu.be/abc", ClipStart: ptrInt(5), ClipEnd: ptrInt(30)}},
				KnowledgeCheck: &domain.KnowledgeCheck{Questions: []domain.Question{
					{Question: "Gloves?", Type: domain.QuestionTrueFalse, CorrectAnswer: "True"},
					{Question: "Pick", Type: domain.QuestionMultipleChoice, Options: []string{"A", "B"}, CorrectAnswer: "B"},
					{Question: "Fill", Type: domain.QuestionFillInBlank, CorrectAnswer: "helmet"},
				}},
			},
		},
		Assessment: domain.Assessment{PassMark: 70, Questions: []domain.Question{
			{Question: "Final", Type: domain.QuestionTrueFalse, CorrectAnswer: "false"},
		}},
	}
	assert.Empty(t, ValidateCourse(domain.CurrentInput(c)))
}

func TestValidateCourse_CollectsIndexedErrors(t *testing.T) {
	c := &domain.CourseContent{
		Topics: []domain.Topic{
			{ID: "t1", Title: "PPE"},
			{ID: "t1", Title: ""},
			{ID: "t3", Title: "Hazards", KnowledgeCheck: &domain.KnowledgeCheck{Questions: []domain.Question{
				{Question: "Pick", Type: domain.QuestionMultipleChoice, Options: []string{"A", "B"}, CorrectAnswer: "C"},
			}}},
		},
		Assessment: domain.Assessment{PassMark: 150},
	}

	msgs := errStrings(ValidateCourse(domain.CurrentInput(c)))
	assert.Contains(t, msgs, `topics[1].title is required`)
	assert.Contains(t, msgs, `topics[1].id: duplicate id "t1"`)
	assert.Contains(t, msgs, `topics[2].knowledgeCheck.questions[0].correctAnswer: "C" is not one of the options`)
	assert.Contains(t, msgs, `assessment.passMark: 150 outside 0-100`)
	assert.Len(t, msgs, 4)
}

func TestValidateCourse_NoTopics(t *testing.T) {
	errs := ValidateCourse(domain.CurrentInput(&domain.CourseContent{}))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one topic")
}

func TestValidateCourse_Questions(t *testing.T) {
	tests := []struct {
		name string
		q    domain.Question
		want string
	}{
		{"missing text", domain.Question{Type: domain.QuestionFillInBlank, CorrectAnswer: "x"}, "assessment.questions[0].question is required"},
		{"bad type", domain.Question{Question: "Q", Type: "essay"}, `assessment.questions[0].type: invalid value "essay"`},
		{"too few options", domain.Question{Question: "Q", Type: domain.QuestionMultipleChoice, Options: []string{"A"}, CorrectAnswer: "A"}, "multiple-choice needs at least 2 options"},
		{"true-false answer", domain.Question{Question: "Q", Type: domain.QuestionTrueFalse, CorrectAnswer: "maybe"}, "true-false answer must be true or false"},
		{"blank answer", domain.Question{Question: "Q", Type: domain.QuestionFillInBlank}, "assessment.questions[0].correctAnswer is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validMinimalCourse()
			c.Assessment.Questions = []domain.Question{tc.q}
			errs := ValidateCourse(domain.CurrentInput(c))
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tc.want)
		})
	}
}

func TestValidateCourse_Media(t *testing.T) {
	c := validMinimalCourse()
	c.Topics[0].Media = []domain.Media{
		{ID: "a", Type: "hologram", URL: "x"},
		{ID: "b", Type: domain.MediaImage},
		{ID: "c", Type: domain.MediaVideo, URL: "https://youtu.be/x", ClipStart: ptrInt(30), ClipEnd: ptrInt(10)},
	}

	msgs := errStrings(ValidateCourse(domain.CurrentInput(c)))
	assert.Equal(t, []string{
		`topics[0].media[0].type: invalid value "hologram"`,
		`topics[0].media[1]: one of url, storageId or embedUrl is required`,
		`topics[0].media[2]: clipEnd (10) must be after clipStart (30)`,
	}, msgs)
}

func TestValidateCourse_Legacy(t *testing.T) {
	legacy := &domain.LegacyCourseContent{
		Activities: []domain.Activity{{ID: "a1", Title: ""}},
		Quiz:       domain.Quiz{PassMark: -1},
	}
	msgs := errStrings(ValidateCourse(domain.LegacyInput(legacy)))
	assert.Equal(t, []string{
		"activities[0].title is required",
		"quiz.passMark: -1 outside 0-100",
	}, msgs)

	assert.Len(t, ValidateCourse(domain.LegacyInput(&domain.LegacyCourseContent{})), 1)
}

func TestValidateCourse_MismatchedInput(t *testing.T) {
	errs := ValidateCourse(domain.CourseInput{Format: domain.FormatCurrent})
	require.Len(t, errs, 1)
}
