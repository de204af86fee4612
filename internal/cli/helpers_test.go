package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// testApp wires the services against an in-memory database.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	bridge := service.NewSQLiteBridge(database, testutil.NewTestUoW(database))
	projRepo := repository.NewSQLiteProjectRepo(database)
	mediaRepo := repository.NewSQLiteMediaRepo(database)
	media := service.NewMediaService(mediaRepo, nil)
	return &App{
		Projects: service.NewProjectService(bridge, projRepo, mediaRepo, service.ProjectServiceConfig{ProjectsDir: t.TempDir()}),
		Media:    media,
		Imports:  service.NewCourseImportService(),
		Builds:   service.NewBuildService(media, t.TempDir(), nil),
	}
}

// executeCmd runs the root command with args and returns stdout and stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustExecute is executeCmd for steps that are expected to succeed.
func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, errOut, err := executeCmd(t, app, args...)
	require.NoError(t, err, "args %v\nstdout: %s\nstderr: %s", args, out, errOut)
	return out
}

// writeFile writes data under a temp dir and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func courseFile(t *testing.T, c *domain.CourseContent) string {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	return writeFile(t, "course.json", data)
}

// seedAtMedia seeds a course and imports the test course, leaving it at
// the media step.
func seedAtMedia(t *testing.T, app *App, title string) {
	t.Helper()
	mustExecute(t, app, "seed", "--title", title, "--topic", "PPE", "--topic", "Hazards")
	mustExecute(t, app, "prompt", "--out", filepath.Join(t.TempDir(), "prompt.txt"))
	mustExecute(t, app, "import-json", courseFile(t, testutil.NewTestCourse()))
}

// zipEntryText returns one entry of the ZIP at path.
func zipEntryText(t *testing.T, path, name string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatalf("%s has no entry %s", path, name)
	return ""
}

// zipWithout copies the ZIP at path without the entry named drop.
func zipWithout(t *testing.T, path, drop string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.Name == drop {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = io.Copy(w, rc)
		rc.Close()
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return writeFile(t, "without.zip", buf.Bytes())
}
