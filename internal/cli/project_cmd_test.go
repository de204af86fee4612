package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCmd_CreateListShow(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "project", "list")
	assert.Contains(t, out, "No projects found.")

	out = mustExecute(t, app, "project", "create", "Fire", "Drill")
	assert.Contains(t, out, "Created project Fire Drill")
	seedAtMedia(t, app, "Safety 101")

	out = mustExecute(t, app, "project", "list")
	assert.Contains(t, out, "Fire Drill")
	assert.Contains(t, out, "Safety 101")
	assert.Contains(t, out, "PROGRESS")

	out = mustExecute(t, app, "project", "show", "safety 101")
	assert.Contains(t, out, "Title    Safety 101")
	assert.Contains(t, out, "1. PPE")

	out = mustExecute(t, app, "--project", "Fire Drill", "project", "show")
	assert.Contains(t, out, "Fire Drill")
	assert.NotContains(t, out, "Safety 101")
}

func TestProjectCmd_DeleteNeedsConfirmation(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "project", "create", "Scratch")

	_, _, err := executeCmd(t, app, "project", "delete", "Scratch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without --yes")

	out := mustExecute(t, app, "project", "delete", "Scratch", "--yes")
	assert.Contains(t, out, "Deleted project Scratch")

	_, err = app.Projects.Resolve(context.Background(), "Scratch")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectCmd_ExportImport(t *testing.T) {
	app := testApp(t)
	seedAtMedia(t, app, "Portable")
	mustExecute(t, app, "media", "add", "welcome", writeFile(t, "logo.png", pngBytes))

	path := filepath.Join(t.TempDir(), "portable.scormproj")
	out := mustExecute(t, app, "project", "export", "Portable", "--out", path)
	assert.Contains(t, out, "(1 media files)")
	assert.FileExists(t, path)

	out = mustExecute(t, app, "project", "import", path)
	assert.Contains(t, out, "Imported Portable")

	list, err := app.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].Project.ID, list[1].Project.ID)
}

func TestTemplatesCmd(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "templates")
	for _, id := range []string{"corporate-compliance", "soft-skills", "technical-onboarding", "workplace-safety"} {
		assert.Contains(t, out, id)
	}

	out = mustExecute(t, app, "templates", "workplace-safety")
	assert.Contains(t, out, "Workplace Safety")
	assert.Contains(t, out, "Manual Handling")

	_, _, err := executeCmd(t, app, "templates", "nope")
	assert.Error(t, err)
}

func TestProjectCmd_FilesRecoverDeleteFile(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "project", "files")
	assert.Contains(t, out, "No project files found.")

	seedAtMedia(t, app, "Backed Up")
	out = mustExecute(t, app, "project", "export", "Backed Up")
	assert.Contains(t, out, "backed-up.scormproj")
	mustExecute(t, app, "project", "export", "Backed Up")

	files, err := app.Projects.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	path := files[0].Path
	assert.True(t, files[0].HasBackup)

	out = mustExecute(t, app, "project", "files")
	assert.Contains(t, out, path)
	assert.Contains(t, out, "BACKUP")

	_, _, err = executeCmd(t, app, "project", "recover", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without --yes")

	out = mustExecute(t, app, "project", "recover", path, "--yes")
	assert.Contains(t, out, "Recovered "+path)

	_, _, err = executeCmd(t, app, "project", "delete-file", path)
	require.Error(t, err)
	assert.FileExists(t, path)

	out = mustExecute(t, app, "project", "delete-file", path, "--yes")
	assert.Contains(t, out, "Deleted "+path)
	assert.NoFileExists(t, path)
}
