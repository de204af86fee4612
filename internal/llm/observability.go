package llm

import (
	"log/slog"

	"github.com/alexanderramin/scormbuilder/internal/logging"
)

// CallEvent records metadata about a single model invocation.
type CallEvent struct {
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logging.NewComponentLogger(logger, "llm")}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Int("attempts", event.Attempts),
	}
	if !event.Success {
		o.logger.Warn("llm call failed", append(attrs, slog.String("error_code", event.ErrorCode))...)
		return
	}
	o.logger.Info("llm call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
