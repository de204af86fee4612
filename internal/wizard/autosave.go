package wizard

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/logging"
)

// DefaultAutoSaveInterval is how often AutoSaver snapshots the course.
const DefaultAutoSaveInterval = 30 * time.Second

// AutoSaver periodically saves an accumulator. Failures are logged, never
// surfaced to the user.
type AutoSaver struct {
	acc      *Accumulator
	interval time.Duration
	logger   *slog.Logger
}

func NewAutoSaver(acc *Accumulator, interval time.Duration, logger *slog.Logger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &AutoSaver{acc: acc, interval: interval, logger: logging.NewComponentLogger(logger, "autosave")}
}

// Run blocks until ctx is done, saving on every tick. Saves go through the
// accumulator's write lock, so they never interleave with step saves.
func (s *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.saveOnce(ctx)
		}
	}
}

func (s *AutoSaver) saveOnce(ctx context.Context) {
	s.acc.writeMu.Lock()
	defer s.acc.writeMu.Unlock()
	if s.acc.ProjectID() == "" {
		return
	}
	// Bypass the user-facing notifier: flush reports through it.
	if err := s.acc.flushQuiet(ctx, "autosave"); err != nil {
		s.logger.WarnContext(ctx, "auto-save failed", logging.Error(err))
	}
}
