package llm

import (
	"context"
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

const draftSystemPrompt = `You write e-learning course content for a SCORM package builder.
Answer with exactly one JSON object in the format the user describes.
Do not add commentary before or after the object.`

// DraftCourse sends the step-2 prompt to the model and returns the course
// JSON from its reply once the JSON decodes as course content.
func DraftCourse(ctx context.Context, client Client, prompt string) ([]byte, error) {
	if client == nil {
		return nil, ErrDisabled
	}
	resp, err := client.Generate(ctx, GenerateRequest{SystemPrompt: draftSystemPrompt, UserPrompt: prompt})
	if err != nil {
		return nil, err
	}
	data, err := ExtractObject(resp.Text)
	if err != nil {
		return nil, err
	}
	if _, err := domain.DecodeCourseInput(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return data, nil
}
