package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/projectfile"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	p, err := s.projects.Create(ctx, "  Onboarding  ")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", p.Name)
	assert.Equal(t, domain.StepSeed, p.CurrentStep)

	_, err = s.projects.Create(ctx, "   ")
	assert.Error(t, err)
}

func TestProjectService_ListIncludesMetadata(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	seeded := seededAtJSON(t, s, "Safety 101")
	_, err := s.projects.Create(ctx, "Bare")
	require.NoError(t, err)

	list, err := s.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]ProjectSummary{}
	for _, sum := range list {
		byID[sum.Project.ID] = sum
	}
	withMeta := byID[seeded.ProjectID()]
	require.NotNil(t, withMeta.Metadata)
	assert.Equal(t, "Safety 101", withMeta.Metadata.Title)
	assert.Equal(t, 3, withMeta.Metadata.Difficulty)

	for id, sum := range byID {
		if id != seeded.ProjectID() {
			assert.Nil(t, sum.Metadata)
		}
	}
}

func TestProjectService_Resolve(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	older := testutil.NewTestProject("Older course")
	older.ID = "aaaa1111-0000-0000-0000-000000000000"
	older.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testutil.NewTestProject("Newer course")
	newer.ID = "aaaa2222-0000-0000-0000-000000000000"
	require.NoError(t, s.projRepo.Create(ctx, older))
	require.NoError(t, s.projRepo.Create(ctx, newer))

	got, err := s.projects.Resolve(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	got, err = s.projects.Resolve(ctx, "aaaa1")
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	got, err = s.projects.Resolve(ctx, "newer COURSE")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	got, err = s.projects.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID, "empty ref picks the most recently updated project")

	_, err = s.projects.Resolve(ctx, "aaaa")
	assert.ErrorIs(t, err, ErrAmbiguousProject)

	_, err = s.projects.Resolve(ctx, "zzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_ResolveEmptyDatabase(t *testing.T) {
	s := setupServices(t)
	_, err := s.projects.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_DeleteCascades(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	acc := withContent(t, s, "Doomed")
	_, err := s.media.AddFile(ctx, acc, AddMediaRequest{PageID: "topic-0", FileName: "a.png", Data: pngBytes})
	require.NoError(t, err)

	require.NoError(t, s.projects.Delete(ctx, acc.ProjectID()))

	_, err = s.projRepo.GetByID(ctx, acc.ProjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	blobs, err := s.mediaRepo.ListByProject(ctx, acc.ProjectID())
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestProjectService_ExportImportRoundTrip(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	acc := withContent(t, s, "Safety 101")
	added, err := s.media.AddFile(ctx, acc, AddMediaRequest{PageID: "topic-0", FileName: "ppe.png", Title: "PPE", Data: pngBytes})
	require.NoError(t, err)
	original := acc.State()

	path := filepath.Join(t.TempDir(), "safety.scormproj")
	res, err := s.projects.Export(ctx, acc.ProjectID(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, 1, res.MediaCount)

	imported, err := s.projects.Import(ctx, path)
	require.NoError(t, err)
	assert.NotEqual(t, acc.ProjectID(), imported.ID)
	assert.Equal(t, "Safety 101", imported.Name)
	assert.Equal(t, domain.StepMedia, imported.CurrentStep)

	reopened, err := s.projects.Open(ctx, imported.ID)
	require.NoError(t, err)
	st := reopened.State()
	assert.Equal(t, original.Seed, st.Seed)
	assert.Equal(t, original.Prompt, st.Prompt)
	assert.Equal(t, original.Current, st.Current)
	assert.Equal(t, original.Visited, st.Visited)

	require.Len(t, st.Content.Topics[0].Media, 1)
	m := st.Content.Topics[0].Media[0]
	assert.NotEqual(t, added.StorageID, m.StorageID, "imported blobs get fresh ids")
	assert.Equal(t, "PPE", m.Title)

	blob, err := s.mediaRepo.GetByID(ctx, m.StorageID)
	require.NoError(t, err)
	assert.Equal(t, imported.ID, blob.ProjectID)
	assert.Equal(t, pngBytes, blob.Data)
	require.Len(t, st.Media.Images, 1)
	assert.Equal(t, m.StorageID, st.Media.Images[0].StorageID)

	// The same file imports again as a separate project.
	again, err := s.projects.Import(ctx, path)
	require.NoError(t, err)
	assert.NotEqual(t, imported.ID, again.ID)
}

func TestProjectService_ExportDefaultPath(t *testing.T) {
	dir := t.TempDir()
	s := setupServices(t)
	s.projects = NewProjectService(s.bridge, s.projRepo, s.mediaRepo, ProjectServiceConfig{ProjectsDir: dir})
	ctx := context.Background()

	acc := seededAtJSON(t, s, "Fire Drill")
	res, err := s.projects.Export(ctx, acc.ProjectID(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fire-drill.scormproj"), res.Path)
	assert.FileExists(t, res.Path)
}

func TestProjectService_ImportMissingFile(t *testing.T) {
	s := setupServices(t)
	_, err := s.projects.Import(context.Background(), filepath.Join(t.TempDir(), "nope.scormproj"))
	assert.ErrorIs(t, err, projectfile.ErrNotFound)
}

func TestProjectService_FilesRecoverDelete(t *testing.T) {
	dir := t.TempDir()
	s := setupServices(t)
	s.projects = NewProjectService(s.bridge, s.projRepo, s.mediaRepo, ProjectServiceConfig{ProjectsDir: dir})
	ctx := context.Background()

	files, err := s.projects.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	acc := seededAtJSON(t, s, "Fire Drill")
	res, err := s.projects.Export(ctx, acc.ProjectID(), "")
	require.NoError(t, err)
	first, err := os.ReadFile(res.Path)
	require.NoError(t, err)

	files, err = s.projects.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.False(t, files[0].HasBackup)
	assert.ErrorIs(t, s.projects.RecoverFile(ctx, res.Path), projectfile.ErrNoBackup)

	prompt := "Focus on evacuation routes"
	require.NoError(t, acc.Update(ctx, wizard.StepPayload{Prompt: &prompt}))
	_, err = s.projects.Export(ctx, acc.ProjectID(), "")
	require.NoError(t, err)

	files, err = s.projects.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, res.Path, files[0].Path)
	assert.True(t, files[0].HasBackup)

	require.NoError(t, s.projects.RecoverFile(ctx, res.Path))
	recovered, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, first, recovered)

	require.NoError(t, s.projects.DeleteFile(ctx, res.Path))
	assert.NoFileExists(t, res.Path)
	files, err = s.projects.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}
