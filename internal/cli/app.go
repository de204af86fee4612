package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/llm"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/alexanderramin/scormbuilder/internal/template"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Projects service.ProjectService
	Media    service.MediaService
	Imports  service.CourseImportService
	Builds   service.BuildService

	// Drafts generates course JSON from the step-2 prompt. It is nil when
	// drafting is disabled.
	Drafts llm.Client

	// Templates loads the preset registry; warnings name skipped user files.
	Templates func() (*template.Registry, []string, error)

	Logger *slog.Logger
	// Package holds the SCORM settings used when a course has none yet.
	Package domain.ScormConfig
	// Audio holds the narration defaults applied on entering the audio step.
	Audio            domain.AudioSettings
	AutosaveInterval time.Duration

	// Boot wires the fields above from the global flags. It is nil when
	// the App is assembled by hand, as in tests.
	Boot func(ctx context.Context, opts GlobalOptions) error
	// Close releases what Boot opened.
	Close func() error

	// IsInteractive reports whether stdin is a terminal; forms are only
	// shown when it is.
	IsInteractive func() bool

	opts  GlobalOptions
	stops []context.CancelFunc
}

// GlobalOptions are the persistent root flags.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	Project    string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	return logging.OrNop(a.Logger)
}

// openCourse resolves the --project reference (most recent when empty)
// and loads it into an accumulator with auto-save running for the rest of
// the command.
func (a *App) openCourse(ctx context.Context) (*wizard.Accumulator, error) {
	p, err := a.Projects.Resolve(ctx, a.opts.Project)
	if err != nil {
		if a.opts.Project == "" && errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no projects yet; start one with 'scormbuilder seed'")
		}
		return nil, err
	}
	acc, err := a.Projects.Open(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	a.startAutosave(ctx, acc)
	return acc, nil
}

func (a *App) startAutosave(ctx context.Context, acc *wizard.Accumulator) {
	if a.AutosaveInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.stops = append(a.stops, cancel)
	go wizard.NewAutoSaver(acc, a.AutosaveInterval, a.logger()).Run(ctx)
}

func (a *App) stopAutosave() {
	for _, stop := range a.stops {
		stop()
	}
	a.stops = nil
}

// Release stops background saves and closes what Boot opened.
func (a *App) Release() error {
	a.stopAutosave()
	if a.Close == nil {
		return nil
	}
	return a.Close()
}

// requireStep fails unless the course has reached step.
func requireStep(acc *wizard.Accumulator, step domain.Step) error {
	st := acc.State()
	if st.Visited[step] || st.Current >= step {
		return nil
	}
	return fmt.Errorf("%w: course is at the %s step; finish %s first", wizard.ErrIllegalTransition, st.Current, st.Current.Label())
}

// enterStep applies payload at step: it advances when the course sits
// directly before step and updates in place once step has been visited.
func enterStep(ctx context.Context, acc *wizard.Accumulator, step domain.Step, payload wizard.StepPayload) (advanced bool, err error) {
	st := acc.State()
	switch {
	case st.Current == step-1:
		return true, acc.Advance(ctx, step, payload)
	case st.Visited[step] || st.Current >= step:
		return false, acc.Update(ctx, payload)
	default:
		return false, fmt.Errorf("%w: course is at the %s step; finish %s first", wizard.ErrIllegalTransition, st.Current, st.Current.Label())
	}
}

// NewNotifier prints wizard notices to w.
func NewNotifier(w io.Writer) wizard.Notifier {
	return wizard.NotifierFunc(func(_ context.Context, n wizard.Notice) {
		if n.Level == wizard.NoticeError {
			msg := n.Message
			if n.Err != nil {
				msg = fmt.Sprintf("%s: %v", msg, n.Err)
			}
			fmt.Fprintln(w, formatter.StyleRed.Render("✗ "+msg))
			return
		}
		fmt.Fprintln(w, formatter.Dim(n.Message))
	})
}
