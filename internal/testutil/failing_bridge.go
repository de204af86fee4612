package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

// FailingBridge wraps a Bridge and fails selected writes with Err. Reads
// always pass through.
type FailingBridge struct {
	wizard.Bridge
	Err error

	mu          sync.Mutex
	failKeys    map[string]bool
	failProject bool
	failMeta    bool
}

func NewFailingBridge(inner wizard.Bridge, err error) *FailingBridge {
	return &FailingBridge{Bridge: inner, Err: err, failKeys: make(map[string]bool)}
}

// FailContent makes SaveContent fail for key until Heal is called.
func (b *FailingBridge) FailContent(keys ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		b.failKeys[k] = true
	}
}

func (b *FailingBridge) FailProjectSave() {
	b.mu.Lock()
	b.failProject = true
	b.mu.Unlock()
}

func (b *FailingBridge) FailMetadata() {
	b.mu.Lock()
	b.failMeta = true
	b.mu.Unlock()
}

// Heal clears every injected failure.
func (b *FailingBridge) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failKeys = make(map[string]bool)
	b.failProject = false
	b.failMeta = false
}

func (b *FailingBridge) SaveContent(ctx context.Context, key string, value json.RawMessage) error {
	b.mu.Lock()
	fail := b.failKeys[key]
	b.mu.Unlock()
	if fail {
		return b.Err
	}
	return b.Bridge.SaveContent(ctx, key, value)
}

func (b *FailingBridge) SaveProject(ctx context.Context, p *domain.Project) error {
	b.mu.Lock()
	fail := b.failProject
	b.mu.Unlock()
	if fail {
		return b.Err
	}
	return b.Bridge.SaveProject(ctx, p)
}

func (b *FailingBridge) SaveCourseMetadata(ctx context.Context, meta domain.CourseMetadata) error {
	b.mu.Lock()
	fail := b.failMeta
	b.mu.Unlock()
	if fail {
		return b.Err
	}
	return b.Bridge.SaveCourseMetadata(ctx, meta)
}
