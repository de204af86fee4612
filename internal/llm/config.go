package llm

import "time"

// Config describes the Ollama-compatible server used to draft course JSON.
type Config struct {
	Enabled     bool
	Endpoint    string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns a disabled config pointing at a local Ollama.
// Course drafts are long, so the timeout and token budget are generous.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.2",
		Timeout:     3 * time.Minute,
		MaxRetries:  1,
		Temperature: 0.3,
		MaxTokens:   8192,
	}
}
