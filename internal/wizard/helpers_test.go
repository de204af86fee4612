package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

var errDiskFull = errors.New("disk full")

// memBridge keeps projects in maps and records every content write.
type memBridge struct {
	mu       sync.Mutex
	nextID   int
	current  string
	projects map[string]domain.Project
	content  map[string]map[string]json.RawMessage
	meta     map[string]domain.CourseMetadata
	writes   []string

	failKey     string
	failProject bool
}

func newMemBridge() *memBridge {
	return &memBridge{
		projects: make(map[string]domain.Project),
		content:  make(map[string]map[string]json.RawMessage),
		meta:     make(map[string]domain.CourseMetadata),
	}
}

func (b *memBridge) CreateProject(_ context.Context, name string) (*domain.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := domain.Project{
		ID: fmt.Sprintf("p%d", b.nextID), Name: name,
		VisitedSteps: domain.StepSet{domain.StepSeed: true},
		CreatedAt:    now, UpdatedAt: now,
	}
	b.projects[p.ID] = p
	b.content[p.ID] = make(map[string]json.RawMessage)
	b.current = p.ID
	return &p, nil
}

func (b *memBridge) OpenProject(_ context.Context, id string) (*domain.ProjectData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s not found", id)
	}
	content := make(map[string]json.RawMessage, len(b.content[id]))
	for k, v := range b.content[id] {
		content[k] = v
	}
	b.current = id
	return &domain.ProjectData{Project: p, Content: content}, nil
}

func (b *memBridge) SaveProject(_ context.Context, p *domain.Project) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failProject {
		return errDiskFull
	}
	if _, ok := b.projects[p.ID]; !ok {
		return fmt.Errorf("project %s not found", p.ID)
	}
	b.projects[p.ID] = *p
	b.writes = append(b.writes, "project")
	return nil
}

func (b *memBridge) DeleteProject(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.projects, id)
	delete(b.content, id)
	if b.current == id {
		b.current = ""
	}
	return nil
}

func (b *memBridge) SaveContent(_ context.Context, key string, value json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failKey != "" && key == b.failKey {
		return errDiskFull
	}
	b.content[b.current][key] = append(json.RawMessage(nil), value...)
	b.writes = append(b.writes, key)
	return nil
}

func (b *memBridge) DeleteContent(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.content[b.current], key)
	b.writes = append(b.writes, "-"+key)
	return nil
}

func (b *memBridge) GetContent(_ context.Context, key string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content[b.current][key], nil
}

func (b *memBridge) SaveCourseMetadata(_ context.Context, meta domain.CourseMetadata) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta[b.current] = meta
	b.writes = append(b.writes, "metadata")
	return nil
}

func (b *memBridge) takeWrites() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := b.writes
	b.writes = nil
	return w
}

func (b *memBridge) project(id string) domain.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projects[id]
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func testSeed() domain.CourseSeedData {
	return domain.CourseSeedData{CourseTitle: "Safety 101", CustomTopics: []string{"PPE", "Hazards"}}
}

func testContent() *domain.CourseContent {
	return &domain.CourseContent{
		WelcomePage:            domain.Page{ID: "welcome", Title: "Welcome"},
		LearningObjectivesPage: domain.Page{ID: "objectives", Title: "Learning Objectives"},
		Objectives:             []string{"Choose PPE"},
		Topics: []domain.Topic{
			{ID: "t1", Title: "PPE", Content: "<p>Gloves.</p>"},
			{ID: "t2", Title: "Hazards", Content: "<p>Spills.</p>"},
		},
		Assessment: domain.Assessment{Questions: []domain.Question{}, PassMark: 80},
	}
}

func strPtr(s string) *string { return &s }
