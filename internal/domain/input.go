package domain

import (
	"encoding/json"
	"fmt"
)

// CourseInput is the package assembler's input: exactly one of Current or
// Legacy is set, selected by Format.
type CourseInput struct {
	Format  ContentFormat
	Current *CourseContent
	Legacy  *LegacyCourseContent
}

// CurrentInput wraps current-shape content.
func CurrentInput(c *CourseContent) CourseInput {
	return CourseInput{Format: FormatCurrent, Current: c}
}

// LegacyInput wraps legacy-shape content.
func LegacyInput(c *LegacyCourseContent) CourseInput {
	return CourseInput{Format: FormatLegacy, Legacy: c}
}

// Validate checks that the discriminant matches the populated variant.
func (in CourseInput) Validate() error {
	switch in.Format {
	case FormatCurrent:
		if in.Current == nil {
			return fmt.Errorf("course input: format %q without current content", in.Format)
		}
	case FormatLegacy:
		if in.Legacy == nil {
			return fmt.Errorf("course input: format %q without legacy content", in.Format)
		}
	default:
		return fmt.Errorf("course input: unknown format %q", in.Format)
	}
	return nil
}

// contentShape captures only the keys that tell the two shapes apart.
type contentShape struct {
	Format     ContentFormat   `json:"format"`
	Topics     json.RawMessage `json:"topics"`
	Assessment json.RawMessage `json:"assessment"`
	Activities json.RawMessage `json:"activities"`
	Quiz       json.RawMessage `json:"quiz"`
}

// DecodeCourseInput decodes raw course JSON into a CourseInput. An explicit
// "format" key wins; otherwise documents carrying "activities" or "quiz"
// and no "topics" are treated as legacy. This is the only place the shape
// is inferred from field presence.
func DecodeCourseInput(data []byte) (CourseInput, error) {
	var shape contentShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return CourseInput{}, fmt.Errorf("decoding course content: %w", err)
	}

	format := shape.Format
	if format == "" {
		format = FormatCurrent
		hasLegacy := len(shape.Activities) > 0 || len(shape.Quiz) > 0
		hasCurrent := len(shape.Topics) > 0 || len(shape.Assessment) > 0
		if hasLegacy && !hasCurrent {
			format = FormatLegacy
		}
	}

	switch format {
	case FormatCurrent:
		var c CourseContent
		if err := json.Unmarshal(data, &c); err != nil {
			return CourseInput{}, fmt.Errorf("decoding course content: %w", err)
		}
		return CurrentInput(&c), nil
	case FormatLegacy:
		var c LegacyCourseContent
		if err := json.Unmarshal(data, &c); err != nil {
			return CourseInput{}, fmt.Errorf("decoding legacy course content: %w", err)
		}
		return LegacyInput(&c), nil
	default:
		return CourseInput{}, fmt.Errorf("decoding course content: unknown format %q", format)
	}
}
