package scorm

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func safetyContent() *domain.CourseContent {
	return &domain.CourseContent{
		WelcomePage:            domain.Page{ID: "welcome", Title: "Welcome to Safety 101", Content: "<p>Stay safe.</p>"},
		LearningObjectivesPage: domain.Page{ID: "objectives", Title: "Learning Objectives"},
		Objectives:             []string{"Choose the right PPE", "Spot hazards"},
		Topics: []domain.Topic{
			{ID: "topic-0", Title: "PPE", Content: "<p>Personal protective equipment.</p>"},
			{ID: "topic-1", Title: "Hazards", Content: "<p>Recognising hazards.</p>"},
		},
		Assessment: domain.Assessment{Questions: []domain.Question{}, PassMark: 80},
	}
}

func safetySeed() domain.CourseSeedData {
	return domain.CourseSeedData{CourseTitle: "Safety 101", CustomTopics: []string{"PPE", "Hazards"}, Difficulty: 3}
}

func assembleSafety(t *testing.T, opts ...AssemblerOption) *Package {
	t.Helper()
	pkg, err := NewAssembler(opts...).Assemble(context.Background(), domain.CurrentInput(safetyContent()), safetySeed(), PackageConfig{ScormVersion: "1.2"})
	require.NoError(t, err)
	return pkg
}

// readZipEntries returns the archive entries in order.
func readZipEntries(t *testing.T, data []byte) []zipEntry {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var out []zipEntry
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out = append(out, zipEntry{Name: f.Name, Data: body})
	}
	return out
}

func entryData(t *testing.T, entries []zipEntry, name string) string {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return string(e.Data)
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

// rewritePackage applies edit to the entries of pkg and re-zips them.
// Returning nil data from edit drops the entry.
func rewritePackage(t *testing.T, data []byte, edit func(name string, body []byte) []byte) []byte {
	t.Helper()
	var out []zipEntry
	for _, e := range readZipEntries(t, data) {
		if body := edit(e.Name, e.Data); body != nil {
			out = append(out, zipEntry{Name: e.Name, Data: body})
		}
	}
	rebuilt, err := writeZip(out)
	require.NoError(t, err)
	return rebuilt
}

type recordingSource struct {
	mu    sync.Mutex
	calls int
	data  map[string][]byte
}

func (s *recordingSource) Load(_ context.Context, m domain.Media) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if b, ok := s.data[m.ID]; ok {
		return b, nil
	}
	return nil, io.ErrUnexpectedEOF
}
