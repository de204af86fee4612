package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseImport_AdvancesToMedia(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := seededAtJSON(t, s, "Safety 101")

	content, err := s.imports.ImportJSON(ctx, acc, courseJSON(t, testutil.NewTestCourse()))
	require.NoError(t, err)
	require.Len(t, content.Topics, 2)

	assert.Equal(t, domain.StepMedia, acc.CurrentStep())
	st := acc.State()
	assert.True(t, st.Visited[domain.StepMedia])
	assert.NotEmpty(t, st.JSONImport)
	assert.Equal(t, "PPE", st.Content.Topics[0].Title)
}

func TestCourseImport_ValidationErrors(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := seededAtJSON(t, s, "Safety 101")

	bad := testutil.NewTestCourse(testutil.WithTopics(), testutil.WithPassMark(120))
	_, err := s.imports.ImportJSON(ctx, acc, courseJSON(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "topics: at least one topic is required")
	assert.Contains(t, err.Error(), "outside 0-100")

	assert.Equal(t, domain.StepJSON, acc.CurrentStep())
	assert.Nil(t, acc.State().Content)
}

func TestCourseImport_MalformedJSON(t *testing.T) {
	s := setupServices(t)
	acc := seededAtJSON(t, s, "Safety 101")
	_, err := s.imports.ImportJSON(context.Background(), acc, []byte(`{"welcomePage": `))
	assert.Error(t, err)
	assert.Equal(t, domain.StepJSON, acc.CurrentStep())
}

func TestCourseImport_BeforePromptStep(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := s.projects.NewCourse()
	require.NoError(t, acc.SubmitSeed(ctx, testutil.NewTestSeed("Early")))

	_, err := s.imports.ImportJSON(ctx, acc, courseJSON(t, testutil.NewTestCourse()))
	assert.ErrorIs(t, err, wizard.ErrIllegalTransition)
	assert.Equal(t, domain.StepPrompt, acc.CurrentStep())
}

func TestCourseImport_RevisitUpdatesWithoutAdvancing(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := withContent(t, s, "Safety 101")
	require.True(t, acc.NavigateToStep(domain.StepJSON))

	replaced := testutil.NewTestCourse(testutil.WithTopics("Ladders", "Scaffolds", "Harnesses"))
	_, err := s.imports.ImportJSON(ctx, acc, courseJSON(t, replaced))
	require.NoError(t, err)

	assert.Equal(t, domain.StepJSON, acc.CurrentStep())
	assert.Len(t, acc.State().Content.Topics, 3)

	reopened, err := s.projects.Open(ctx, acc.ProjectID())
	require.NoError(t, err)
	assert.Len(t, reopened.State().Content.Topics, 3)

	stored, err := repository.NewSQLiteContentRepo(s.db).ListByProject(ctx, acc.ProjectID())
	require.NoError(t, err)
	topicKeys := 0
	for key := range stored {
		if strings.HasPrefix(key, wizard.TopicKey("")) {
			topicKeys++
		}
	}
	assert.Equal(t, 3, topicKeys, "replaced topics are removed from storage")
}

func TestCourseImport_RevisitDropsRemovedTopics(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := withContent(t, s, "Shrinking", testutil.WithTopics("PPE", "Hazards", "Fire"))
	require.True(t, acc.NavigateToStep(domain.StepJSON))

	_, err := s.imports.ImportJSON(ctx, acc, courseJSON(t, testutil.NewTestCourse(testutil.WithTopics("PPE"))))
	require.NoError(t, err)

	stored, err := repository.NewSQLiteContentRepo(s.db).ListByProject(ctx, acc.ProjectID())
	require.NoError(t, err)
	assert.Contains(t, stored, wizard.TopicKey("topic-0"))
	assert.NotContains(t, stored, wizard.TopicKey("topic-1"))
	assert.NotContains(t, stored, wizard.TopicKey("topic-2"))
}
