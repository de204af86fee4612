package llm

import "errors"

var (
	// ErrDisabled is returned when course drafting is switched off in config.
	ErrDisabled = errors.New("course drafting is disabled; set [llm] enabled = true")

	// ErrUnavailable indicates the model server is unreachable.
	ErrUnavailable = errors.New("model server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("model request timed out")

	// ErrInvalidOutput indicates the reply held no usable course JSON.
	ErrInvalidOutput = errors.New("invalid model output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("model retry attempts exhausted")
)
