package wizard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// ProjectFile renders the accumulated course as a portable project
// document.
func (a *Accumulator) ProjectFile() (*domain.ProjectFile, error) {
	s := a.State()
	if s.Project == nil {
		return nil, ErrNoProject
	}
	return StateToFile(s), nil
}

// StateToFile converts wizard state to the project document.
func StateToFile(s State) *domain.ProjectFile {
	pf := &domain.ProjectFile{
		CourseSeedData: s.Seed,
		AIPrompt:       s.Prompt,
		JSONImportData: s.JSONImport,
		CourseContent:  s.Content,
		Media:          s.Media,
		ActivitiesData: s.Activities,
		CurrentStep:    s.Current.String(),
		AudioSettings:  s.Audio,
		ScormConfig:    s.Scorm,
	}
	for _, step := range s.Visited.Sorted() {
		pf.VisitedSteps = append(pf.VisitedSteps, int(step))
	}
	if p := s.Project; p != nil {
		pf.Project = domain.ProjectFileMeta{ID: p.ID, Name: p.Name, Created: p.CreatedAt, LastModified: p.UpdatedAt}
	}
	return pf
}

// FileContent flattens a project document into the content keys the
// Bridge stores, plus the wizard position it records.
func FileContent(pf *domain.ProjectFile) (map[string]json.RawMessage, domain.Step, domain.StepSet, error) {
	step, err := domain.ParseStep(pf.CurrentStep)
	if err != nil {
		if pf.CurrentStep != "" {
			return nil, 0, nil, fmt.Errorf("project file: %w", err)
		}
		step = domain.StepSeed
	}
	visited := domain.StepSet{domain.StepSeed: true, step: true}
	for _, v := range pf.VisitedSteps {
		if domain.Step(v).Valid() {
			visited[domain.Step(v)] = true
		}
	}

	s := newState()
	s.Seed = pf.CourseSeedData
	s.Prompt = pf.AIPrompt
	s.JSONImport = pf.JSONImportData
	s.Content = pf.CourseContent
	s.Media = pf.Media
	s.Activities = pf.ActivitiesData
	if pf.AudioSettings != (domain.AudioSettings{}) {
		s.Audio = pf.AudioSettings
	}
	if pf.ScormConfig != (domain.ScormConfig{}) {
		s.Scorm = pf.ScormConfig
	}
	if s.Content != nil {
		if verr := validatePayload(StepPayload{Content: s.Content}); verr != nil {
			return nil, 0, nil, fmt.Errorf("project file: %w", verr)
		}
	}

	content, err := encodeState(&s)
	if err != nil {
		return nil, 0, nil, err
	}
	return content, step, visited, nil
}

// ProjectName picks the name for a project restored from a document.
func ProjectName(pf *domain.ProjectFile) string {
	if pf.Project.Name != "" {
		return pf.Project.Name
	}
	if pf.CourseSeedData != nil && pf.CourseSeedData.CourseTitle != "" {
		return pf.CourseSeedData.CourseTitle
	}
	return "Untitled course " + time.Now().UTC().Format("2006-01-02")
}
