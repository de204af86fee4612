package wizard

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// Bridge is the storage contract the wizard persists through. Content keys
// are scoped to the project most recently created or opened. Implementations
// return I/O errors without retrying.
type Bridge interface {
	CreateProject(ctx context.Context, name string) (*domain.Project, error)
	OpenProject(ctx context.Context, id string) (*domain.ProjectData, error)
	SaveProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) error
	SaveContent(ctx context.Context, key string, value json.RawMessage) error
	// GetContent returns nil, nil when key is absent.
	GetContent(ctx context.Context, key string) (json.RawMessage, error)
	// DeleteContent is a no-op for absent keys.
	DeleteContent(ctx context.Context, key string) error
	SaveCourseMetadata(ctx context.Context, meta domain.CourseMetadata) error
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient, non-blocking message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	Err     error
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier reports notices as log lines.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(ctx context.Context, n Notice) {
	if n.Level == NoticeError {
		attrs := []any{}
		if n.Err != nil {
			attrs = append(attrs, "error", n.Err.Error())
		}
		l.logger.ErrorContext(ctx, n.Message, attrs...)
		return
	}
	l.logger.InfoContext(ctx, n.Message)
}
