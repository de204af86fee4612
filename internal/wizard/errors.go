package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPersistence wraps every bridge failure. In-memory state is kept.
	ErrPersistence = errors.New("persistence failed")
	// ErrIllegalTransition is returned by Advance for any move other than
	// the next step.
	ErrIllegalTransition = errors.New("illegal step transition")
	// ErrNoProject is returned when an operation needs a backing project.
	ErrNoProject = errors.New("no project open")
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError blocks a step transition.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
