package wizard

import (
	"encoding/json"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// State is the accumulated course being authored.
type State struct {
	Project    *domain.Project
	Seed       *domain.CourseSeedData
	Prompt     string
	JSONImport json.RawMessage
	Content    *domain.CourseContent
	Media      domain.MediaLibrary
	Audio      domain.AudioSettings
	Activities json.RawMessage
	Scorm      domain.ScormConfig
	Current    domain.Step
	Visited    domain.StepSet
}

func newState() State {
	return State{
		Audio:   domain.DefaultAudioSettings(),
		Scorm:   domain.DefaultScormConfig(),
		Current: domain.StepSeed,
		Visited: domain.StepSet{domain.StepSeed: true},
	}
}

// clone returns a copy deep enough that callers cannot mutate the
// accumulator through it.
func (s State) clone() State {
	out := s
	if s.Project != nil {
		p := *s.Project
		p.VisitedSteps = copySet(s.Project.VisitedSteps)
		out.Project = &p
	}
	if s.Seed != nil {
		seed := *s.Seed
		out.Seed = &seed
	}
	if s.Content != nil {
		var c domain.CourseContent
		if raw, err := json.Marshal(s.Content); err == nil && json.Unmarshal(raw, &c) == nil {
			out.Content = &c
		}
	}
	out.JSONImport = append(json.RawMessage(nil), s.JSONImport...)
	out.Activities = append(json.RawMessage(nil), s.Activities...)
	out.Visited = copySet(s.Visited)
	return out
}

func copySet(s domain.StepSet) domain.StepSet {
	out := make(domain.StepSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StepPayload carries the slices produced by a step. Nil fields are left
// unchanged.
type StepPayload struct {
	Prompt     *string
	JSONImport json.RawMessage
	Content    *domain.CourseContent
	Media      *domain.MediaLibrary
	Audio      *domain.AudioSettings
	Activities json.RawMessage
	Scorm      *domain.ScormConfig
}

// CourseInput returns the assembler input for the accumulated content.
func (s State) CourseInput() (domain.CourseInput, bool) {
	if s.Content == nil {
		return domain.CourseInput{}, false
	}
	return domain.CurrentInput(s.Content), true
}
