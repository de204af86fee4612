package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/stretchr/testify/assert"
)

func TestFormatStatus(t *testing.T) {
	seed := testutil.NewTestSeed("Safety 101")
	course := testutil.NewTestCourse(
		testutil.WithKnowledgeCheck(0),
		testutil.WithTopicMedia(1, domain.Media{ID: "m1", Type: domain.MediaImage}),
	)
	st := wizard.State{
		Project: testutil.NewTestProject("Safety 101"),
		Seed:    &seed,
		Content: course,
		Audio:   domain.DefaultAudioSettings(),
		Scorm:   domain.DefaultScormConfig(),
		Current: domain.StepMedia,
		Visited: domain.StepSet{domain.StepSeed: true, domain.StepPrompt: true, domain.StepJSON: true, domain.StepMedia: true},
	}

	out := FormatStatus(st)
	assert.Contains(t, out, "Safety 101")
	assert.Contains(t, out, "57%")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "PPE, Hazards")
	assert.Contains(t, out, "topic-0")
	assert.Contains(t, out, "1 q")
	assert.Contains(t, out, "1 image")
	assert.Contains(t, out, "pass mark 80%")
	assert.NotContains(t, out, "NARRATION")
	assert.NotContains(t, out, "PACKAGE")
}

func TestFormatStatus_Unsaved(t *testing.T) {
	st := wizard.State{Current: domain.StepSeed, Visited: domain.StepSet{domain.StepSeed: true}}
	out := FormatStatus(st)
	assert.Contains(t, out, "(unsaved course)")
	assert.NotContains(t, out, "SEED")
}

func TestFormatProjectList(t *testing.T) {
	p := testutil.NewTestProject("Safety 101")
	p.UpdatedAt = time.Now().Add(-2 * time.Hour)
	meta := domain.MetadataFromSeed(testutil.NewTestSeed("Safety 101"))
	bare := testutil.NewTestProject("Bare")

	out := FormatProjectList([]service.ProjectSummary{{Project: p, Metadata: &meta}, {Project: bare}})
	assert.Contains(t, out, p.ID[:8])
	assert.Contains(t, out, "Safety 101")
	assert.Contains(t, out, "Course Seed")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "Bare")
}

func TestFormatProjectDetail(t *testing.T) {
	p := testutil.NewTestProject("Safety 101")
	meta := domain.MetadataFromSeed(testutil.NewTestSeed("Safety 101"))
	out := FormatProjectDetail(p, &meta)
	assert.Contains(t, out, p.ID)
	assert.Contains(t, out, "1. PPE")
	assert.Contains(t, out, "2. Hazards")
	assert.Contains(t, out, "SCORM Package")
}

func TestFormatMediaList(t *testing.T) {
	now := time.Now()
	blobs := []domain.BlobInfo{
		{ID: "b2", PageID: "topic-0", Type: domain.MediaAudio, FileName: "0003-ppe.mp3", SizeBytes: 2000, CreatedAt: now},
		{ID: "b1", PageID: "welcome", Type: domain.MediaImage, FileName: "logo.png", SizeBytes: 1000, CreatedAt: now},
		{ID: "b3", PageID: "gone", Type: domain.MediaImage, FileName: "old.png", SizeBytes: 10, CreatedAt: now},
	}
	out := FormatMediaList(blobs, []string{"welcome", "objectives", "topic-0"})
	assert.Contains(t, out, "logo.png")
	assert.Contains(t, out, "(unattached)")
	assert.Contains(t, out, "3 files, 3.0 kB")
	assert.Less(t, strings.Index(out, "logo.png"), strings.Index(out, "0003-ppe.mp3"))
	assert.Less(t, strings.Index(out, "0003-ppe.mp3"), strings.Index(out, "old.png"))

	assert.Contains(t, FormatMediaList(nil, nil), "No media stored.")
}
