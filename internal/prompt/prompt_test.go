package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_IncludesSeed(t *testing.T) {
	out, err := Build(domain.CourseSeedData{
		CourseTitle:  "  Safety 101 ",
		Difficulty:   4,
		Template:     "Workplace Safety",
		CustomTopics: []string{"PPE", " ", "Hazards"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `titled "Safety 101"`)
	assert.Contains(t, out, "Audience level: Hard (difficulty 4 of 5)")
	assert.Contains(t, out, "Course template: Workplace Safety.")
	assert.Contains(t, out, "1. PPE\n2. Hazards\n")
	assert.Contains(t, out, "assessment of 5 questions")
	assert.Contains(t, out, `"passMark": 80`)
	assert.NotContains(t, out, "3. ")
}

func TestBuild_Deterministic(t *testing.T) {
	seed := domain.CourseSeedData{CourseTitle: "Onboarding", Difficulty: 2, TemplateTopics: []string{"Tools", "Process"}}
	a, err := Build(seed)
	require.NoError(t, err)
	b, err := Build(seed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_TemplateNoneOmitted(t *testing.T) {
	out, err := Build(domain.CourseSeedData{CourseTitle: "X", Template: domain.TemplateNone, CustomTopics: []string{"A"}})
	require.NoError(t, err)
	assert.NotContains(t, out, "Course template")
	assert.Contains(t, out, "Audience level: Medium (difficulty 3 of 5)")
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(domain.CourseSeedData{CourseTitle: " ", CustomTopics: []string{"A"}})
	assert.Error(t, err)

	_, err = Build(domain.CourseSeedData{CourseTitle: "X", CustomTopics: []string{"  "}})
	assert.ErrorIs(t, err, ErrNoTopics)
}

func TestAssessmentSize(t *testing.T) {
	assert.Equal(t, 5, assessmentSize(1))
	assert.Equal(t, 8, assessmentSize(4))
	assert.Equal(t, 20, assessmentSize(15))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "Basic", Level(1))
	assert.Equal(t, "Expert", Level(5))
	assert.Equal(t, "Medium", Level(0))
}

// The example shape handed to the model must itself pass import validation.
func TestSchema_PassesImportValidation(t *testing.T) {
	raw := Schema()
	require.True(t, json.Valid([]byte(raw)))

	in, err := domain.DecodeCourseInput([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCurrent, in.Format)
	assert.Empty(t, importer.ValidateCourse(in))
	assert.False(t, strings.Contains(raw, "\t"))
}
