package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/db"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/google/uuid"
)

// ErrNoCurrentProject is returned by content operations before a project
// has been created or opened.
var ErrNoCurrentProject = errors.New("no current project")

// SQLiteBridge implements wizard.Bridge on the project database. Content
// calls are scoped to the project most recently created or opened.
type SQLiteBridge struct {
	db       *sql.DB
	uow      db.UnitOfWork
	observer UseCaseObserver

	mu      sync.Mutex
	current string
}

var _ wizard.Bridge = (*SQLiteBridge)(nil)

func NewSQLiteBridge(database *sql.DB, uow db.UnitOfWork, observers ...UseCaseObserver) *SQLiteBridge {
	return &SQLiteBridge{db: database, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Current returns the id content calls are scoped to.
func (b *SQLiteBridge) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *SQLiteBridge) setCurrent(id string) {
	b.mu.Lock()
	b.current = id
	b.mu.Unlock()
}

func (b *SQLiteBridge) requireCurrent() (string, error) {
	id := b.Current()
	if id == "" {
		return "", ErrNoCurrentProject
	}
	return id, nil
}

func (b *SQLiteBridge) CreateProject(ctx context.Context, name string) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, b.observer, "create-project", startedAt, err, map[string]any{"name": name})
	}()

	now := time.Now().UTC()
	p = &domain.Project{
		ID:           uuid.New().String(),
		Name:         name,
		CurrentStep:  domain.StepSeed,
		VisitedSteps: domain.StepSet{domain.StepSeed: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = repository.NewSQLiteProjectRepo(b.db).Create(ctx, p); err != nil {
		return nil, err
	}
	b.setCurrent(p.ID)
	return p, nil
}

func (b *SQLiteBridge) OpenProject(ctx context.Context, id string) (data *domain.ProjectData, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, b.observer, "open-project", startedAt, err, map[string]any{"project_id": id})
	}()

	data = &domain.ProjectData{}
	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		content, err := repository.NewSQLiteContentRepo(tx).ListByProject(ctx, id)
		if err != nil {
			return err
		}
		data.Project = *p
		data.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.setCurrent(id)
	return data, nil
}

func (b *SQLiteBridge) SaveProject(ctx context.Context, p *domain.Project) error {
	return repository.NewSQLiteProjectRepo(b.db).Update(ctx, p)
}

func (b *SQLiteBridge) DeleteProject(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, b.observer, "delete-project", startedAt, err, map[string]any{"project_id": id})
	}()

	if err = repository.NewSQLiteProjectRepo(b.db).Delete(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	if b.current == id {
		b.current = ""
	}
	b.mu.Unlock()
	return nil
}

func (b *SQLiteBridge) SaveContent(ctx context.Context, key string, value json.RawMessage) error {
	id, err := b.requireCurrent()
	if err != nil {
		return err
	}
	return repository.NewSQLiteContentRepo(b.db).Put(ctx, id, key, value)
}

func (b *SQLiteBridge) DeleteContent(ctx context.Context, key string) error {
	id, err := b.requireCurrent()
	if err != nil {
		return err
	}
	return repository.NewSQLiteContentRepo(b.db).Delete(ctx, id, key)
}

func (b *SQLiteBridge) GetContent(ctx context.Context, key string) (json.RawMessage, error) {
	id, err := b.requireCurrent()
	if err != nil {
		return nil, err
	}
	return repository.NewSQLiteContentRepo(b.db).Get(ctx, id, key)
}

func (b *SQLiteBridge) SaveCourseMetadata(ctx context.Context, meta domain.CourseMetadata) error {
	id, err := b.requireCurrent()
	if err != nil {
		return err
	}
	return repository.NewSQLiteProjectRepo(b.db).SaveMetadata(ctx, id, meta)
}

// RestoreProject creates a project with the given content and media blobs
// in a single transaction and makes it current.
func (b *SQLiteBridge) RestoreProject(ctx context.Context, p *domain.Project, content map[string]json.RawMessage, meta *domain.CourseMetadata, blobs []*domain.MediaBlob) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, b.observer, "restore-project", startedAt, err, map[string]any{
			"project_id": p.ID,
			"keys":       len(content),
			"blobs":      len(blobs),
		})
	}()

	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		contents := repository.NewSQLiteContentRepo(tx)
		media := repository.NewSQLiteMediaRepo(tx)
		if err := projects.Create(ctx, p); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, key := range sortedKeys(content) {
			if err := contents.Put(ctx, p.ID, key, content[key]); err != nil {
				return err
			}
		}
		for _, blob := range blobs {
			blob.ProjectID = p.ID
			if err := media.Create(ctx, blob); err != nil {
				return err
			}
		}
		if meta != nil {
			if err := projects.SaveMetadata(ctx, p.ID, *meta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.setCurrent(p.ID)
	return nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
