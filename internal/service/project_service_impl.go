package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/alexanderramin/scormbuilder/internal/projectfile"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/google/uuid"
)

// ErrAmbiguousProject is returned by Resolve when a prefix matches more
// than one project.
var ErrAmbiguousProject = errors.New("ambiguous project reference")

type projectService struct {
	bridge      *SQLiteBridge
	projects    repository.ProjectRepo
	media       repository.MediaRepo
	projectsDir string
	logger      *slog.Logger
	notifier    wizard.Notifier
	observer    UseCaseObserver
}

// ProjectServiceConfig carries the optional collaborators of the project
// service.
type ProjectServiceConfig struct {
	// ProjectsDir is where Export writes when no path is given.
	ProjectsDir string
	Logger      *slog.Logger
	Notifier    wizard.Notifier
	Observer    UseCaseObserver
}

func NewProjectService(bridge *SQLiteBridge, projects repository.ProjectRepo, media repository.MediaRepo, cfg ProjectServiceConfig) ProjectService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &projectService{
		bridge:      bridge,
		projects:    projects,
		media:       media,
		projectsDir: cfg.ProjectsDir,
		logger:      logger,
		notifier:    cfg.Notifier,
		observer:    useCaseObserverOrNoop([]UseCaseObserver{cfg.Observer}),
	}
}

func (s *projectService) wizardOptions() []wizard.Option {
	opts := []wizard.Option{wizard.WithLogger(s.logger)}
	if s.notifier != nil {
		opts = append(opts, wizard.WithNotifier(s.notifier))
	}
	return opts
}

func (s *projectService) NewCourse() *wizard.Accumulator {
	return wizard.New(s.bridge, s.wizardOptions()...)
}

func (s *projectService) Create(ctx context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	return s.bridge.CreateProject(ctx, name)
}

func (s *projectService) Open(ctx context.Context, id string) (*wizard.Accumulator, error) {
	return wizard.Open(ctx, s.bridge, id, s.wizardOptions()...)
}

func (s *projectService) List(ctx context.Context) ([]ProjectSummary, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		meta, err := s.projects.GetMetadata(ctx, p.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		out = append(out, ProjectSummary{Project: p, Metadata: meta})
	}
	return out, nil
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref != "" {
		p, err := s.projects.GetByID(ctx, ref)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		if len(projects) == 0 {
			return nil, fmt.Errorf("no projects yet: %w", repository.ErrNotFound)
		}
		return projects[0], nil
	}

	var matches []*domain.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project %q %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d projects", ErrAmbiguousProject, ref, len(matches))
	}
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.bridge.DeleteProject(ctx, id)
}

func (s *projectService) Export(ctx context.Context, id, path string) (res *ExportResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"project_id": id}
		if res != nil {
			fields["path"] = res.Path
			fields["media"] = res.MediaCount
		}
		observe(ctx, s.observer, "export-project", startedAt, err, fields)
	}()

	acc, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	pf, err := acc.ProjectFile()
	if err != nil {
		return nil, err
	}

	infos, err := s.media.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	assets := make([]projectfile.Asset, 0, len(infos))
	for _, info := range infos {
		blob, err := s.media.GetByID(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		assets = append(assets, projectfile.Asset{
			ID:       blob.ID,
			PageID:   blob.PageID,
			Type:     blob.Type,
			MimeType: blob.MimeType,
			FileName: blob.FileName,
			Data:     blob.Data,
		})
	}

	if path == "" {
		path = projectfile.PathFor(s.projectsDir, pf.Project.Name)
	}
	if err := projectfile.Open(path).Save(ctx, pf, assets); err != nil {
		return nil, fmt.Errorf("exporting project: %w", err)
	}
	return &ExportResult{Path: path, MediaCount: len(assets)}, nil
}

// Import restores a project file as a new project. The project and its
// media blobs get fresh ids so the same file can be imported twice.
func (s *projectService) Import(ctx context.Context, path string) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"path": path}
		if p != nil {
			fields["project_id"] = p.ID
		}
		observe(ctx, s.observer, "import-project", startedAt, err, fields)
	}()

	pf, assets, err := projectfile.Open(path).Load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ids := make(map[string]string, len(assets))
	blobs := make([]*domain.MediaBlob, 0, len(assets))
	for _, a := range assets {
		if !domain.ValidMediaTypes[string(a.Type)] {
			return nil, fmt.Errorf("project file media %s: invalid type %q", a.ID, a.Type)
		}
		newID := uuid.New().String()
		ids[a.ID] = newID
		blobs = append(blobs, &domain.MediaBlob{
			ID:        newID,
			PageID:    a.PageID,
			Type:      a.Type,
			MimeType:  a.MimeType,
			FileName:  a.FileName,
			Data:      a.Data,
			CreatedAt: now,
		})
	}
	remapStorageIDs(pf, ids)

	content, step, visited, err := wizard.FileContent(pf)
	if err != nil {
		return nil, err
	}
	created := pf.Project.Created
	if created.IsZero() {
		created = now
	}
	p = &domain.Project{
		ID:           uuid.New().String(),
		Name:         wizard.ProjectName(pf),
		CurrentStep:  step,
		VisitedSteps: visited,
		CreatedAt:    created.UTC(),
		UpdatedAt:    now,
	}
	var meta *domain.CourseMetadata
	if pf.CourseSeedData != nil {
		m := domain.MetadataFromSeed(*pf.CourseSeedData)
		meta = &m
	}

	if err := s.bridge.RestoreProject(ctx, p, content, meta, blobs); err != nil {
		return nil, fmt.Errorf("importing project: %w", err)
	}
	return p, nil
}

func (s *projectService) ListFiles(ctx context.Context) (files []ProjectFileInfo, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "list-project-files", startedAt, err, map[string]any{"dir": s.projectsDir, "files": len(files)})
	}()

	paths, err := projectfile.List(s.projectsDir)
	if err != nil {
		return nil, err
	}
	files = make([]ProjectFileInfo, 0, len(paths))
	for _, p := range paths {
		_, statErr := os.Stat(projectfile.Open(p).BackupPath())
		files = append(files, ProjectFileInfo{Path: p, HasBackup: statErr == nil})
	}
	return files, nil
}

func (s *projectService) RecoverFile(ctx context.Context, path string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "recover-project-file", startedAt, err, map[string]any{"path": path})
	}()
	return projectfile.Open(path).Restore(ctx)
}

func (s *projectService) DeleteFile(ctx context.Context, path string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "delete-project-file", startedAt, err, map[string]any{"path": path})
	}()
	return projectfile.Open(path).Delete(ctx)
}
