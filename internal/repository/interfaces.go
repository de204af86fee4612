package repository

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	SaveMetadata(ctx context.Context, projectID string, meta domain.CourseMetadata) error
	GetMetadata(ctx context.Context, projectID string) (*domain.CourseMetadata, error)
}

// ContentRepo stores opaque JSON content slices keyed per project.
type ContentRepo interface {
	Put(ctx context.Context, projectID, key string, value json.RawMessage) error
	// Get returns nil, nil when the key has never been written.
	Get(ctx context.Context, projectID, key string) (json.RawMessage, error)
	ListByProject(ctx context.Context, projectID string) (map[string]json.RawMessage, error)
	Delete(ctx context.Context, projectID, key string) error
	DeleteByPrefix(ctx context.Context, projectID, prefix string) (int64, error)
}

type MediaRepo interface {
	Create(ctx context.Context, b *domain.MediaBlob) error
	GetByID(ctx context.Context, id string) (*domain.MediaBlob, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.BlobInfo, error)
	Delete(ctx context.Context, id string) error
	DeleteByType(ctx context.Context, projectID string, types ...domain.MediaType) (int64, error)
}
