package wizard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*Accumulator, *memBridge, *recordingNotifier) {
	t.Helper()
	bridge := newMemBridge()
	notes := &recordingNotifier{}
	acc := New(bridge, WithNotifier(notes), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, acc.SubmitSeed(context.Background(), testSeed()))
	bridge.takeWrites()
	return acc, bridge, notes
}

func TestSubmitSeed_CreatesProjectAndAdvances(t *testing.T) {
	bridge := newMemBridge()
	acc := New(bridge, WithClock(func() time.Time { return fixedNow }))

	seed := testSeed()
	seed.CourseTitle = "  Safety 101  "
	require.NoError(t, acc.SubmitSeed(context.Background(), seed))

	assert.Equal(t, "p1", acc.ProjectID())
	assert.Equal(t, domain.StepPrompt, acc.CurrentStep())

	st := acc.State()
	require.NotNil(t, st.Seed)
	assert.Equal(t, "Safety 101", st.Seed.CourseTitle)
	assert.Equal(t, 3, st.Seed.Difficulty)
	assert.Equal(t, domain.TemplateNone, st.Seed.Template)
	assert.True(t, st.Visited[domain.StepSeed])
	assert.True(t, st.Visited[domain.StepPrompt])

	stored := bridge.content["p1"]
	assert.Contains(t, stored, KeySeed)
	assert.Contains(t, stored, KeyMedia)
	assert.Contains(t, stored, KeyAudioSettings)
	assert.Contains(t, stored, KeyScormConfig)
	assert.NotContains(t, stored, KeyPrompt)

	assert.Equal(t, []string{"PPE", "Hazards"}, bridge.meta["p1"].Topics)
	p := bridge.project("p1")
	assert.Equal(t, domain.StepPrompt, p.CurrentStep)
	assert.Equal(t, "0,1", p.VisitedSteps.Encode())
	assert.Equal(t, fixedNow, p.UpdatedAt)
}

func TestSubmitSeed_Validation(t *testing.T) {
	bridge := newMemBridge()
	acc := New(bridge)

	err := acc.SubmitSeed(context.Background(), domain.CourseSeedData{CourseTitle: "   ", Difficulty: 9})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"courseTitle", "difficulty", "topics"}, fields)
	assert.Contains(t, err.Error(), "validation failed: ")

	assert.Empty(t, acc.ProjectID())
	assert.Nil(t, acc.State().Seed)
	assert.Equal(t, domain.StepSeed, acc.CurrentStep())
	assert.Empty(t, bridge.takeWrites())
}

func TestSubmitSeed_TemplateTopicsSatisfyTopicRule(t *testing.T) {
	acc := New(newMemBridge())
	err := acc.SubmitSeed(context.Background(), domain.CourseSeedData{
		CourseTitle: "Onboarding", Template: "Corporate", TemplateTopics: []string{"Intro"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Corporate", acc.State().Seed.Template)
}

func TestAdvance_OnlyNextStepIsLegal(t *testing.T) {
	ctx := context.Background()

	fresh := New(newMemBridge())
	err := fresh.Advance(ctx, domain.StepPrompt, StepPayload{})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	acc, _, _ := seeded(t)
	assert.ErrorIs(t, acc.Advance(ctx, domain.StepMedia, StepPayload{}), ErrIllegalTransition)
	assert.ErrorIs(t, acc.Advance(ctx, domain.StepPrompt, StepPayload{}), ErrIllegalTransition)

	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Prompt: strPtr("Write a course")}))
	assert.Equal(t, domain.StepJSON, acc.CurrentStep())

	assert.Equal(t, domain.StepPrompt, acc.Back())
	assert.ErrorIs(t, acc.Advance(ctx, domain.StepMedia, StepPayload{}), ErrIllegalTransition)
	assert.Equal(t, domain.StepPrompt, acc.CurrentStep())
}

func TestAdvance_RejectsInvalidPayload(t *testing.T) {
	acc, bridge, _ := seeded(t)
	content := testContent()
	content.Topics[1].ID = "t1"

	err := acc.Advance(context.Background(), domain.StepJSON, StepPayload{Content: content})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "topics[1].id", verr.Fields[0].Field)

	assert.Equal(t, domain.StepPrompt, acc.CurrentStep())
	assert.Nil(t, acc.State().Content)
	assert.Empty(t, bridge.takeWrites())
}

func TestUpdate_RejectsUnsupportedScormVersion(t *testing.T) {
	acc, _, _ := seeded(t)
	cfg := domain.ScormConfig{Version: "2004", CompletionCriteria: domain.CompletionAll, PassingScore: 80}

	var verr *ValidationError
	require.ErrorAs(t, acc.Update(context.Background(), StepPayload{Scorm: &cfg}), &verr)
	assert.Equal(t, "scorm_config.version", verr.Fields[0].Field)
	assert.Equal(t, domain.ScormVersion12, acc.State().Scorm.Version)
}

func TestNavigateToStep_OnlyVisited(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	bridge.takeWrites()

	assert.False(t, acc.NavigateToStep(domain.StepScorm))
	assert.Equal(t, domain.StepJSON, acc.CurrentStep())

	assert.True(t, acc.NavigateToStep(domain.StepSeed))
	assert.Equal(t, domain.StepSeed, acc.CurrentStep())
	assert.Empty(t, bridge.takeWrites())

	assert.Equal(t, domain.StepSeed, acc.Back())
}

func TestSave_WritesOnlyChangedSlices(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()

	require.NoError(t, acc.Save(ctx))
	assert.Empty(t, bridge.takeWrites())

	require.NoError(t, acc.Update(ctx, StepPayload{Prompt: strPtr("Focus on warehouses")}))
	assert.Equal(t, []string{KeyPrompt}, bridge.takeWrites())

	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	writes := bridge.takeWrites()
	assert.Equal(t, []string{TopicKey("t1"), TopicKey("t2")}, writes[:2])
	assert.ElementsMatch(t, []string{
		TopicKey("t1"), TopicKey("t2"), KeyAssessment, KeyOutline, KeyObjectivesPage, KeyWelcomePage, "project",
	}, writes)

	content := testContent()
	content.Topics[1].Content = "<p>Spills and trips.</p>"
	require.NoError(t, acc.Update(ctx, StepPayload{Content: content}))
	assert.Equal(t, []string{TopicKey("t2")}, bridge.takeWrites())
}

func TestPersistenceFailure_KeepsStateAndNotifies(t *testing.T) {
	acc, bridge, notes := seeded(t)
	ctx := context.Background()
	bridge.failKey = KeyOutline

	err := acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()})
	require.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, domain.StepJSON, acc.CurrentStep())
	require.NotNil(t, acc.State().Content)
	assert.Len(t, acc.State().Content.Topics, 2)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, NoticeError, got[0].Level)
	assert.ErrorIs(t, got[0].Err, ErrPersistence)

	assert.Equal(t, domain.StepPrompt, bridge.project("p1").CurrentStep)

	bridge.failKey = ""
	bridge.takeWrites()
	require.NoError(t, acc.Save(ctx))
	assert.ElementsMatch(t, []string{KeyOutline, KeyObjectivesPage, KeyWelcomePage, "project"}, bridge.takeWrites())
	assert.Equal(t, domain.StepJSON, bridge.project("p1").CurrentStep)
}

func TestSave_WithoutProject(t *testing.T) {
	acc := New(newMemBridge())
	assert.ErrorIs(t, acc.Save(context.Background()), ErrNoProject)
}

func TestReplaceAudio(t *testing.T) {
	acc, _, _ := seeded(t)
	ctx := context.Background()

	content := testContent()
	content.Topics[0].Media = []domain.Media{
		{ID: "img", Type: domain.MediaImage, URL: "https://example.com/gloves.png"},
		{ID: "old-audio", Type: domain.MediaAudio, StorageID: "blob-old"},
	}
	lib := domain.MediaLibrary{Audio: []domain.Media{{ID: "old-audio", Type: domain.MediaAudio}}}
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: content, Media: &lib}))

	narration := Narration{
		"t2":      {{ID: "a2", Type: domain.MediaAudio, StorageID: "blob-a2"}, {ID: "c2", Type: domain.MediaCaption, StorageID: "blob-c2"}},
		"welcome": {{ID: "a0", Type: domain.MediaAudio, StorageID: "blob-a0"}},
	}
	require.NoError(t, acc.ReplaceAudio(ctx, narration))

	st := acc.State()
	assert.Equal(t, []domain.Media{{ID: "img", Type: domain.MediaImage, URL: "https://example.com/gloves.png"}}, st.Content.Topics[0].Media)
	assert.Len(t, st.Content.Topics[1].Media, 2)
	assert.Len(t, st.Content.WelcomePage.Media, 1)

	ids := func(ms []domain.Media) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}
	assert.Equal(t, []string{"a0", "a2"}, ids(st.Media.Audio))
	assert.Equal(t, []string{"c2"}, ids(st.Media.Captions))

	require.NoError(t, acc.ReplaceAudio(ctx, Narration{}))
	st = acc.State()
	assert.Empty(t, st.Media.Audio)
	assert.Empty(t, st.Content.Topics[1].Media)
}

func TestReplaceAudio_Validation(t *testing.T) {
	acc, _, _ := seeded(t)
	ctx := context.Background()

	var verr *ValidationError
	require.ErrorAs(t, acc.ReplaceAudio(ctx, Narration{}), &verr)

	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	require.ErrorAs(t, acc.ReplaceAudio(ctx, Narration{"nope": nil}), &verr)
	require.ErrorAs(t, acc.ReplaceAudio(ctx, Narration{"t1": {{ID: "x", Type: domain.MediaImage}}}), &verr)
}

func TestOpen_RoundTrip(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{
		Prompt:     strPtr("Write a course"),
		Content:    testContent(),
		JSONImport: json.RawMessage(`{"topics": []}`),
	}))
	before := acc.State()

	reopened, err := Open(ctx, bridge, acc.ProjectID())
	require.NoError(t, err)
	after := reopened.State()

	assert.Equal(t, before.Seed, after.Seed)
	assert.Equal(t, before.Prompt, after.Prompt)
	assert.JSONEq(t, `{"topics":[]}`, string(after.JSONImport))
	assert.Equal(t, before.Current, after.Current)
	assert.Equal(t, before.Visited, after.Visited)
	assert.Equal(t, before.Audio, after.Audio)
	assert.Equal(t, before.Scorm, after.Scorm)

	want, err := json.Marshal(before.Content)
	require.NoError(t, err)
	got, err := json.Marshal(after.Content)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	bridge.takeWrites()
	require.NoError(t, reopened.Save(ctx))
	assert.Empty(t, bridge.takeWrites())
}

func TestOpen_DropsTopicsMissingFromStorage(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	delete(bridge.content["p1"], TopicKey("t2"))

	reopened, err := Open(ctx, bridge, "p1")
	require.NoError(t, err)
	topics := reopened.State().Content.Topics
	require.Len(t, topics, 1)
	assert.Equal(t, "t1", topics[0].ID)
}

func TestOpen_UnknownProject(t *testing.T) {
	_, err := Open(context.Background(), newMemBridge(), "missing")
	assert.Error(t, err)
}

func TestState_IsSnapshot(t *testing.T) {
	acc, _, _ := seeded(t)
	require.NoError(t, acc.Advance(context.Background(), domain.StepJSON, StepPayload{Content: testContent()}))

	st := acc.State()
	st.Content.Topics[0].Title = "mutated"
	st.Seed.CourseTitle = "mutated"
	st.Visited[domain.StepScorm] = true

	fresh := acc.State()
	assert.Equal(t, "PPE", fresh.Content.Topics[0].Title)
	assert.Equal(t, "Safety 101", fresh.Seed.CourseTitle)
	assert.False(t, fresh.Visited[domain.StepScorm])
}

func TestUpdate_DeletesTopicsDroppedFromOutline(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	bridge.takeWrites()

	content := testContent()
	content.Topics = []domain.Topic{{ID: "t3", Title: "Fire", Content: "<p>Exits.</p>"}}
	require.NoError(t, acc.Update(ctx, StepPayload{Content: content}))

	writes := bridge.takeWrites()
	assert.Contains(t, writes, TopicKey("t3"))
	assert.Contains(t, writes, "-"+TopicKey("t1"))
	assert.Contains(t, writes, "-"+TopicKey("t2"))
	assert.NotContains(t, bridge.content["p1"], TopicKey("t1"))
	assert.NotContains(t, bridge.content["p1"], TopicKey("t2"))

	require.NoError(t, acc.Save(ctx))
	assert.Empty(t, bridge.takeWrites())
}

func TestOpen_PrunesOrphanTopicsOnNextSave(t *testing.T) {
	acc, bridge, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: testContent()}))
	bridge.content["p1"][TopicKey("old")] = json.RawMessage(`{"id":"old"}`)

	reopened, err := Open(ctx, bridge, "p1")
	require.NoError(t, err)
	assert.Len(t, reopened.State().Content.Topics, 2)

	bridge.takeWrites()
	require.NoError(t, reopened.Save(ctx))
	assert.Equal(t, []string{"-" + TopicKey("old")}, bridge.takeWrites())
	assert.NotContains(t, bridge.content["p1"], TopicKey("old"))
}

func TestPassMark_StaysInSyncWithPassingScore(t *testing.T) {
	acc, _, _ := seeded(t)
	ctx := context.Background()

	content := testContent()
	content.Assessment.PassMark = 70
	require.NoError(t, acc.Advance(ctx, domain.StepJSON, StepPayload{Content: content}))
	assert.Equal(t, 70, acc.State().Scorm.PassingScore)

	cfg := acc.State().Scorm
	cfg.PassingScore = 0
	require.NoError(t, acc.Update(ctx, StepPayload{Scorm: &cfg}))
	st := acc.State()
	assert.Equal(t, 0, st.Scorm.PassingScore)
	assert.Equal(t, 0, st.Content.Assessment.PassMark)

	edited := *st.Content
	edited.Topics[0].Title = "Gloves"
	require.NoError(t, acc.Update(ctx, StepPayload{Content: &edited}))
	assert.Equal(t, 0, acc.State().Scorm.PassingScore, "content edits without a pass mark keep the passing score")
}
