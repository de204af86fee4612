package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"gopkg.in/yaml.v3"
)

// Preset is a named course template: a topic list and a suggested
// difficulty for the seed step.
type Preset struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Difficulty  int      `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Topics      []string `yaml:"topics" json:"topics"`
}

// ParsePreset decodes YAML preset data. Unknown keys are rejected.
func ParsePreset(data []byte) (*Preset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Preset
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	return &p, nil
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePreset(data)
}

// Validate checks a preset for structural errors.
// Returns a slice of errors (empty if valid).
func (p *Preset) Validate() []error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, fmt.Errorf("preset id is required"))
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("preset name is required"))
	}
	if strings.EqualFold(p.Name, domain.TemplateNone) {
		errs = append(errs, fmt.Errorf("preset name %q is reserved", p.Name))
	}
	if p.Difficulty != 0 && (p.Difficulty < 1 || p.Difficulty > 5) {
		errs = append(errs, fmt.Errorf("difficulty %d outside 1-5", p.Difficulty))
	}
	if len(p.Topics) == 0 {
		errs = append(errs, fmt.Errorf("at least one topic is required"))
	}
	for i, t := range p.Topics {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, fmt.Errorf("topics[%d]: blank topic", i))
		}
	}
	return errs
}

// ApplyToSeed fills the template fields of seed from the preset. The
// difficulty is only taken when the seed has none.
func (p *Preset) ApplyToSeed(seed *domain.CourseSeedData) {
	seed.Template = p.Name
	seed.TemplateTopics = append([]string(nil), p.Topics...)
	if seed.Difficulty == 0 {
		seed.Difficulty = p.Difficulty
	}
}
