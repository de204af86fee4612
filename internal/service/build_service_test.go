package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildService_EndToEnd(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	acc := withContent(t, s, "Safety 101", testutil.WithKnowledgeCheck(0))
	_, err := s.media.AddFile(ctx, acc, AddMediaRequest{PageID: "topic-0", FileName: "ppe.png", Data: pngBytes})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "safety.zip")
	res, err := s.builds.Build(ctx, acc, out)
	require.NoError(t, err)
	assert.Equal(t, out, res.Path)
	require.NotNil(t, res.Report)
	assert.True(t, res.Report.IsValid, scorm.FormatReport(res.Report))
	assert.Positive(t, res.Pages)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Size, int64(len(data)))

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	var hasMedia bool
	for _, f := range zr.File {
		names = append(names, f.Name)
		if strings.HasPrefix(f.Name, "media/") {
			hasMedia = true
		}
	}
	assert.Contains(t, names, "imsmanifest.xml")
	assert.True(t, hasMedia, "package should carry the uploaded image: %v", names)
}

func TestBuildService_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	s := setupServices(t)
	s.builds = NewBuildService(s.media, dir, nil)
	acc := withContent(t, s, "Fire Drill")

	res, err := s.builds.Build(context.Background(), acc, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fire-drill.zip"), res.Path)
	assert.FileExists(t, res.Path)
}

func TestBuildService_NeedsContent(t *testing.T) {
	s := setupServices(t)
	acc := seededAtJSON(t, s, "Empty")
	_, err := s.builds.Build(context.Background(), acc, filepath.Join(t.TempDir(), "x.zip"))
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestBuildService_NeedsSeed(t *testing.T) {
	s := setupServices(t)
	_, err := s.builds.Build(context.Background(), s.projects.NewCourse(), "")
	assert.ErrorIs(t, err, scorm.ErrEmptyTitle)
}
