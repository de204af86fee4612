package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

// ErrInvalidPackage is returned when the assembled package fails
// validation; the package is not written.
var ErrInvalidPackage = errors.New("assembled package failed validation")

type buildService struct {
	media     MediaService
	outputDir string
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewBuildService(media MediaService, outputDir string, logger *slog.Logger, observers ...UseCaseObserver) BuildService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &buildService{
		media:     media,
		outputDir: outputDir,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Build assembles the course, validates the bytes and writes the ZIP.
// An empty outPath writes "<slug>.zip" into the output directory.
func (s *buildService) Build(ctx context.Context, acc *wizard.Accumulator, outPath string) (res *BuildResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"project_id": acc.ProjectID()}
		if res != nil {
			fields["path"] = res.Path
			fields["bytes"] = res.Size
			fields["pages"] = res.Pages
			fields["warnings"] = len(res.Warnings)
		}
		observe(ctx, s.observer, "build-package", startedAt, err, fields)
	}()

	st := acc.State()
	if st.Seed == nil {
		return nil, scorm.ErrEmptyTitle
	}
	input, ok := st.CourseInput()
	if !ok {
		return nil, ErrNoContent
	}

	assembler := scorm.NewAssembler(
		scorm.WithMediaSource(s.media.Source()),
		scorm.WithLogger(s.logger),
	)
	pkg, err := assembler.Assemble(ctx, input, *st.Seed, scorm.ConfigFromProject(st.Scorm))
	if err != nil {
		return nil, fmt.Errorf("assembling package: %w", err)
	}

	report := scorm.Validate(pkg.Data)
	res = &BuildResult{
		Size:     int64(len(pkg.Data)),
		Pages:    len(pkg.Pages),
		Warnings: pkg.Warnings,
		Report:   report,
	}
	if !report.IsValid {
		return res, ErrInvalidPackage
	}

	if outPath == "" {
		outPath = filepath.Join(s.outputDir, domain.CoalesceStr(scorm.Slugify(st.Seed.CourseTitle), "course")+".zip")
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, pkg.Data, 0o644); err != nil {
		return res, fmt.Errorf("writing package: %w", err)
	}
	res.Path = outPath
	return res, nil
}
