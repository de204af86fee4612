package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/importer"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

type courseImportService struct {
	observer UseCaseObserver
}

func NewCourseImportService(observers ...UseCaseObserver) CourseImportService {
	return &courseImportService{observer: useCaseObserverOrNoop(observers)}
}

// ImportJSON completes the JSON step. The first import advances to the
// media step; once media has been reached it only replaces the content.
func (s *courseImportService) ImportJSON(ctx context.Context, acc *wizard.Accumulator, data []byte) (content *domain.CourseContent, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"project_id": acc.ProjectID(), "bytes": len(data)}
		if content != nil {
			fields["topics"] = len(content.Topics)
		}
		observe(ctx, s.observer, "import-course-json", startedAt, err, fields)
	}()

	st := acc.State()
	if !st.Visited[domain.StepJSON] {
		return nil, fmt.Errorf("%w: finish the %s step first", wizard.ErrIllegalTransition, domain.StepPrompt)
	}

	in, err := domain.DecodeCourseInput(data)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidateCourse(in); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	content, err = importer.Convert(in)
	if err != nil {
		return nil, fmt.Errorf("converting course content: %w", err)
	}

	payload := wizard.StepPayload{JSONImport: data, Content: content}
	if st.Current == domain.StepJSON && !st.Visited[domain.StepMedia] {
		err = acc.Advance(ctx, domain.StepMedia, payload)
	} else {
		err = acc.Update(ctx, payload)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}
