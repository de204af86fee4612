package domain

import (
	"encoding/json"
	"time"
)

type Project struct {
	ID           string
	Name         string
	CurrentStep  Step
	VisitedSteps StepSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayID returns the project id truncated to 8 characters.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// CourseMetadata is the denormalized summary shown in project listings.
type CourseMetadata struct {
	Title      string   `json:"title"`
	Difficulty int      `json:"difficulty"`
	Template   string   `json:"template"`
	Topics     []string `json:"topics"`
}

// MetadataFromSeed derives listing metadata from seed data.
func MetadataFromSeed(seed CourseSeedData) CourseMetadata {
	return CourseMetadata{
		Title:      seed.CourseTitle,
		Difficulty: seed.Difficulty,
		Template:   seed.Template,
		Topics:     seed.Topics(),
	}
}

// MediaLibrary is the project-wide catalogue of media gathered during the
// media and audio steps.
type MediaLibrary struct {
	Images   []Media `json:"images"`
	Videos   []Media `json:"videos"`
	Audio    []Media `json:"audio"`
	Captions []Media `json:"captions"`
}

type AudioSettings struct {
	Voice string  `json:"voice" toml:"voice"`
	Speed float64 `json:"speed" toml:"speed"`
	Pitch float64 `json:"pitch" toml:"pitch"`
}

// DefaultAudioSettings returns the narration defaults.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{Voice: "en-US-JennyNeural", Speed: 1.0, Pitch: 1.0}
}

type ScormConfig struct {
	Version            string             `json:"version"`
	CompletionCriteria CompletionCriteria `json:"completion_criteria"`
	PassingScore       int                `json:"passing_score"`
}

// DefaultScormConfig returns the export defaults.
func DefaultScormConfig() ScormConfig {
	return ScormConfig{Version: ScormVersion12, CompletionCriteria: CompletionAll, PassingScore: 80}
}

// ProjectData is a project row together with every stored content slice.
type ProjectData struct {
	Project Project
	Content map[string]json.RawMessage
}

// ProjectFileMeta identifies the project inside a project file.
type ProjectFileMeta struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`
}

// ProjectFile is the portable project document (.scormproj).
type ProjectFile struct {
	Project        ProjectFileMeta `json:"project"`
	CourseSeedData *CourseSeedData `json:"course_seed_data,omitempty"`
	AIPrompt       string          `json:"ai_prompt,omitempty"`
	JSONImportData json.RawMessage `json:"json_import_data,omitempty"`
	CourseContent  *CourseContent  `json:"course_content,omitempty"`
	Media          MediaLibrary    `json:"media"`
	ActivitiesData json.RawMessage `json:"activities_data,omitempty"`
	CurrentStep    string          `json:"current_step"`
	VisitedSteps   []int           `json:"visited_steps,omitempty"`
	AudioSettings  AudioSettings   `json:"audio_settings"`
	ScormConfig    ScormConfig     `json:"scorm_config"`
}
