package service

import (
	"context"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

// ProjectSummary is a project row with its course metadata, if any.
type ProjectSummary struct {
	Project  *domain.Project
	Metadata *domain.CourseMetadata
}

type ProjectService interface {
	// NewCourse returns an accumulator with no backing project; the
	// project is created when the seed is submitted.
	NewCourse() *wizard.Accumulator
	Create(ctx context.Context, name string) (*domain.Project, error)
	// Open loads a project into a fresh accumulator.
	Open(ctx context.Context, id string) (*wizard.Accumulator, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	// Resolve finds a project by id, id prefix or exact name. An empty
	// ref picks the most recently updated project.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id, path string) (*ExportResult, error)
	Import(ctx context.Context, path string) (*domain.Project, error)
	// ListFiles returns the project documents in the projects directory,
	// newest first.
	ListFiles(ctx context.Context) ([]ProjectFileInfo, error)
	// RecoverFile replaces a project document with the backup kept by its
	// previous save.
	RecoverFile(ctx context.Context, path string) error
	// DeleteFile removes a project document with its backup and media.
	DeleteFile(ctx context.Context, path string) error
}

// ExportResult describes a written project file.
type ExportResult struct {
	Path       string
	MediaCount int
}

type ProjectFileInfo struct {
	Path      string
	HasBackup bool
}

type MediaService interface {
	// AddFile stores data as a blob and attaches it to a page.
	AddFile(ctx context.Context, acc *wizard.Accumulator, req AddMediaRequest) (*domain.Media, error)
	// AddExternal attaches a URL (image link or video) to a page.
	AddExternal(ctx context.Context, acc *wizard.Accumulator, pageID string, m domain.Media) (*domain.Media, error)
	Remove(ctx context.Context, acc *wizard.Accumulator, pageID, mediaID string) error
	List(ctx context.Context, projectID string) ([]domain.BlobInfo, error)
	ImportNarration(ctx context.Context, acc *wizard.Accumulator, zipData []byte) (*NarrationResult, error)
	// Source loads stored blobs for the package assembler.
	Source() scorm.MediaSource
}

// AddMediaRequest is a file upload for one page.
type AddMediaRequest struct {
	PageID   string
	FileName string
	Title    string
	Data     []byte
}

// NarrationResult summarizes an audio ZIP import.
type NarrationResult struct {
	Audio    int
	Captions int
	Pages    int
	Warnings []string
}

type CourseImportService interface {
	// ImportJSON validates raw course JSON, converts it and stores it as
	// the project's course content.
	ImportJSON(ctx context.Context, acc *wizard.Accumulator, data []byte) (*domain.CourseContent, error)
}

type BuildService interface {
	Build(ctx context.Context, acc *wizard.Accumulator, outPath string) (*BuildResult, error)
}

// BuildResult is an assembled, validated package.
type BuildResult struct {
	Path     string
	Size     int64
	Pages    int
	Warnings []string
	Report   *scorm.Report
}
