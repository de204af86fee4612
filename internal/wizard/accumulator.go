package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/go-playground/validator/v10"
)

const defaultDifficulty = 3

// Pseudo-keys in the persisted snapshot for writes that are not content keys.
const (
	metadataMark = "\x00metadata"
	projectMark  = "\x00project"
)

// Accumulator owns the in-memory course for one open project and persists
// it through a Bridge. All bridge writes are serialized by writeMu; state
// reads and navigation only take mu.
type Accumulator struct {
	bridge   Bridge
	notifier Notifier
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time

	writeMu sync.Mutex

	mu        sync.Mutex
	state     State
	persisted map[string]string
}

type Option func(*Accumulator)

func WithNotifier(n Notifier) Option {
	return func(a *Accumulator) { a.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Accumulator) { a.logger = logging.NewComponentLogger(l, "wizard") }
}

// WithClock overrides the time source used for project timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Accumulator) { a.now = now }
}

// New returns an accumulator with no backing project. The project is
// created on the first successful seed submission.
func New(bridge Bridge, opts ...Option) *Accumulator {
	a := &Accumulator{
		bridge:    bridge,
		logger:    logging.NewNop(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       func() time.Time { return time.Now().UTC() },
		state:     newState(),
		persisted: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.notifier == nil {
		a.notifier = NewLogNotifier(a.logger)
	}
	return a
}

// Open loads a stored project into a new accumulator.
func Open(ctx context.Context, bridge Bridge, id string, opts ...Option) (*Accumulator, error) {
	a := New(bridge, opts...)
	data, err := bridge.OpenProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("opening project %s: %w", id, err)
	}
	p := data.Project
	state, warnings, err := decodeState(&p, data.Content)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	for _, w := range warnings {
		a.logger.WarnContext(ctx, "project content inconsistent", logging.String(logging.FieldProjectID, id), logging.String("detail", w))
	}
	a.state = state
	a.markLoaded(data.Content)
	return a, nil
}

// markLoaded records what storage already holds so the next save only
// writes real changes.
func (a *Accumulator) markLoaded(content map[string]json.RawMessage) {
	enc, err := encodeState(&a.state)
	if err != nil {
		return
	}
	for k, v := range enc {
		if _, ok := content[k]; ok {
			a.persisted[k] = string(v)
		}
	}
	for k, v := range content {
		if _, ok := enc[k]; isTopicKey(k) && !ok {
			a.persisted[k] = string(v)
		}
	}
	if a.state.Seed != nil {
		if meta, err := json.Marshal(domain.MetadataFromSeed(*a.state.Seed)); err == nil {
			a.persisted[metadataMark] = string(meta)
		}
	}
	a.persisted[projectMark] = projectSignature(&a.state)
}

// State returns a snapshot of the accumulated course.
func (a *Accumulator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

func (a *Accumulator) CurrentStep() domain.Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Current
}

// ProjectID returns the backing project id, or "" before the first save.
func (a *Accumulator) ProjectID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Project == nil {
		return ""
	}
	return a.state.Project.ID
}

// SubmitSeed validates the seed, stores it and moves to the prompt step.
// A *ValidationError leaves state untouched.
func (a *Accumulator) SubmitSeed(ctx context.Context, seed domain.CourseSeedData) error {
	if verr := a.validateSeed(&seed); verr != nil {
		return verr
	}
	if seed.Difficulty == 0 {
		seed.Difficulty = defaultDifficulty
	}
	if seed.Template == "" {
		seed.Template = domain.TemplateNone
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	a.state.Seed = &seed
	a.state.Visited[domain.StepSeed] = true
	a.state.Visited[domain.StepPrompt] = true
	a.state.Current = domain.StepPrompt
	a.mu.Unlock()

	return a.flush(ctx, "seed")
}

func (a *Accumulator) validateSeed(seed *domain.CourseSeedData) *ValidationError {
	verr := &ValidationError{}
	seed.CourseTitle = strings.TrimSpace(seed.CourseTitle)
	if err := a.validate.Struct(seed); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.add("courseSeedData", err.Error())
			return verr
		}
		for _, fe := range fieldErrs {
			verr.add(jsonFieldName(fe.Field()), seedMessage(fe))
		}
	}
	if len(seed.Topics()) == 0 {
		verr.add("topics", "at least one topic is required")
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func seedMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		return "must be between 1 and 5"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonFieldName(goName string) string {
	if goName == "" {
		return goName
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

// Advance merges payload and moves to the next step. Only current+1 is
// legal, and only from the prompt step onward; the seed step is left
// through SubmitSeed.
func (a *Accumulator) Advance(ctx context.Context, to domain.Step, payload StepPayload) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	from := a.state.Current
	if from < domain.StepPrompt || to != from+1 || !to.Valid() {
		a.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if verr := validatePayload(payload); verr != nil {
		a.mu.Unlock()
		return verr
	}
	a.applyPayload(payload)
	a.state.Current = to
	a.state.Visited[to] = true
	a.mu.Unlock()

	return a.flush(ctx, "advance")
}

func validatePayload(p StepPayload) *ValidationError {
	verr := &ValidationError{}
	if p.Content != nil {
		seen := make(map[string]bool, len(p.Content.Topics))
		for i, t := range p.Content.Topics {
			field := fmt.Sprintf("topics[%d].id", i)
			switch {
			case strings.TrimSpace(t.ID) == "":
				verr.add(field, "is required")
			case seen[t.ID]:
				verr.add(field, fmt.Sprintf("duplicate id %q", t.ID))
			}
			seen[t.ID] = true
		}
		if pm := p.Content.Assessment.PassMark; pm < 0 || pm > 100 {
			verr.add("assessment.passMark", "must be between 0 and 100")
		}
	}
	for _, raw := range []json.RawMessage{p.JSONImport, p.Activities} {
		if len(raw) > 0 && !json.Valid(raw) {
			verr.add("payload", "embedded JSON is malformed")
		}
	}
	if c := p.Scorm; c != nil {
		if c.Version != domain.ScormVersion12 {
			verr.add("scorm_config.version", fmt.Sprintf("unsupported SCORM version %q", c.Version))
		}
		if !domain.ValidCompletionCriteria[string(c.CompletionCriteria)] {
			verr.add("scorm_config.completion_criteria", fmt.Sprintf("unknown value %q", c.CompletionCriteria))
		}
		if c.PassingScore < 0 || c.PassingScore > 100 {
			verr.add("scorm_config.passing_score", "must be between 0 and 100")
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// applyPayload must be called with mu held.
func (a *Accumulator) applyPayload(p StepPayload) {
	s := &a.state
	if p.Prompt != nil {
		s.Prompt = *p.Prompt
	}
	if p.JSONImport != nil {
		s.JSONImport = append(json.RawMessage(nil), p.JSONImport...)
	}
	if p.Content != nil {
		c := *p.Content
		s.Content = &c
	}
	if p.Media != nil {
		s.Media = *p.Media
	}
	if p.Audio != nil {
		s.Audio = *p.Audio
	}
	if p.Activities != nil {
		s.Activities = append(json.RawMessage(nil), p.Activities...)
	}
	if p.Scorm != nil {
		s.Scorm = *p.Scorm
	}
	syncPassMark(s, p)
}

// syncPassMark keeps the assessment pass mark and the export passing score
// equal. Export settings win when both arrive in one payload; imported
// content without a pass mark leaves the passing score alone.
func syncPassMark(s *State, p StepPayload) {
	switch {
	case p.Scorm != nil && s.Content != nil:
		s.Content.Assessment.PassMark = s.Scorm.PassingScore
	case p.Content != nil && s.Content.Assessment.PassMark > 0:
		s.Scorm.PassingScore = s.Content.Assessment.PassMark
	}
}

// Update merges payload without moving, for edits made while revisiting a
// step.
func (a *Accumulator) Update(ctx context.Context, payload StepPayload) error {
	if verr := validatePayload(payload); verr != nil {
		return verr
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	a.applyPayload(payload)
	a.mu.Unlock()

	return a.flush(ctx, "update")
}

// NavigateToStep jumps to a previously visited step. Unvisited targets
// are ignored and reported as false.
func (a *Accumulator) NavigateToStep(step domain.Step) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.state.Visited[step] {
		return false
	}
	a.state.Current = step
	return true
}

// Back moves one step back; at the seed step it does nothing.
func (a *Accumulator) Back() domain.Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Current > domain.StepSeed {
		a.state.Current--
	}
	return a.state.Current
}

// Narration maps page ids to the audio and caption media for that page.
type Narration map[string][]domain.Media

// ReplaceAudio removes every audio and caption entry from every page and
// from the media library, then attaches narration. Pages not named in
// narration end up with no audio.
func (a *Accumulator) ReplaceAudio(ctx context.Context, narration Narration) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	c := a.state.Content
	if c == nil {
		a.mu.Unlock()
		return &ValidationError{Fields: []FieldError{{Field: "course_content", Message: "import course content before adding narration"}}}
	}
	verr := &ValidationError{}
	pageIDs := make([]string, 0, len(narration))
	for pageID, media := range narration {
		if c.MediaOwner(pageID) == nil {
			verr.add("narration", fmt.Sprintf("unknown page %q", pageID))
		}
		for _, m := range media {
			if m.Type != domain.MediaAudio && m.Type != domain.MediaCaption {
				verr.add("narration", fmt.Sprintf("page %q: %s is not narration media", pageID, m.Type))
			}
		}
		pageIDs = append(pageIDs, pageID)
	}
	if len(verr.Fields) > 0 {
		a.mu.Unlock()
		return verr
	}

	for _, id := range c.PageIDs() {
		owner := c.MediaOwner(id)
		*owner = withoutNarration(*owner)
	}
	a.state.Media.Audio = nil
	a.state.Media.Captions = nil

	sort.Strings(pageIDs)
	for _, pageID := range orderedPages(c, pageIDs) {
		owner := c.MediaOwner(pageID)
		for _, m := range narration[pageID] {
			*owner = append(*owner, m)
			if m.Type == domain.MediaAudio {
				a.state.Media.Audio = append(a.state.Media.Audio, m)
			} else {
				a.state.Media.Captions = append(a.state.Media.Captions, m)
			}
		}
	}
	a.mu.Unlock()

	return a.flush(ctx, "replace_audio")
}

func withoutNarration(media []domain.Media) []domain.Media {
	out := media[:0:0]
	for _, m := range media {
		if m.Type == domain.MediaAudio || m.Type == domain.MediaCaption {
			continue
		}
		out = append(out, m)
	}
	return out
}

// orderedPages returns ids in course page order.
func orderedPages(c *domain.CourseContent, ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range c.PageIDs() {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}

// Save persists every slice that changed since the last successful write.
func (a *Accumulator) Save(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.flush(ctx, "save")
}

// flush must be called with writeMu held. Keys are recorded as persisted
// one by one, so a failed flush is resumed by the next one.
func (a *Accumulator) flush(ctx context.Context, reason string) error {
	return a.flushWith(ctx, reason, a.notifier)
}

// flushQuiet is flush without user notification.
func (a *Accumulator) flushQuiet(ctx context.Context, reason string) error {
	return a.flushWith(ctx, reason, nil)
}

func (a *Accumulator) flushWith(ctx context.Context, reason string, notifier Notifier) error {
	fail := func(err error) error {
		if notifier != nil {
			notifier.Notify(ctx, Notice{Level: NoticeError, Message: "Could not save project. Your changes are kept; try saving again.", Err: err})
		}
		return err
	}

	a.mu.Lock()
	snapshot := a.state.clone()
	a.mu.Unlock()

	if snapshot.Project == nil {
		if snapshot.Seed == nil {
			return ErrNoProject
		}
		p, err := a.bridge.CreateProject(ctx, snapshot.Seed.CourseTitle)
		if err != nil {
			return fail(persistenceError("creating project", err))
		}
		a.mu.Lock()
		a.state.Project = p
		a.mu.Unlock()
		snapshot.Project = p
	}

	enc, err := encodeState(&snapshot)
	if err != nil {
		return err
	}

	written := 0
	for _, key := range writeOrder(enc) {
		val := string(enc[key])
		if a.wasPersisted(key, val) {
			continue
		}
		if err := a.bridge.SaveContent(ctx, key, enc[key]); err != nil {
			return fail(persistenceError("saving "+key, err))
		}
		a.markPersisted(key, val)
		written++
	}
	for _, key := range a.staleTopicKeys(enc) {
		if err := a.bridge.DeleteContent(ctx, key); err != nil {
			return fail(persistenceError("deleting "+key, err))
		}
		a.mu.Lock()
		delete(a.persisted, key)
		a.mu.Unlock()
		written++
	}

	if snapshot.Seed != nil {
		meta := domain.MetadataFromSeed(*snapshot.Seed)
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encoding course metadata: %w", err)
		}
		if !a.wasPersisted(metadataMark, string(raw)) {
			if err := a.bridge.SaveCourseMetadata(ctx, meta); err != nil {
				return fail(persistenceError("saving course metadata", err))
			}
			a.markPersisted(metadataMark, string(raw))
			written++
		}
	}

	sig := projectSignature(&snapshot)
	if !a.wasPersisted(projectMark, sig) {
		p := *snapshot.Project
		p.CurrentStep = snapshot.Current
		p.VisitedSteps = snapshot.Visited
		p.UpdatedAt = a.now()
		if err := a.bridge.SaveProject(ctx, &p); err != nil {
			return fail(persistenceError("saving project", err))
		}
		a.mu.Lock()
		a.state.Project.CurrentStep = p.CurrentStep
		a.state.Project.VisitedSteps = copySet(p.VisitedSteps)
		a.state.Project.UpdatedAt = p.UpdatedAt
		a.mu.Unlock()
		a.markPersisted(projectMark, sig)
		written++
	}

	a.logger.DebugContext(ctx, "wizard state persisted",
		logging.String("reason", reason),
		logging.String(logging.FieldProjectID, snapshot.Project.ID),
		logging.Int("writes", written),
	)
	return nil
}

// staleTopicKeys lists stored topics the outline no longer references.
func (a *Accumulator) staleTopicKeys(enc map[string]json.RawMessage) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var stale []string
	for key := range a.persisted {
		if _, ok := enc[key]; isTopicKey(key) && !ok {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)
	return stale
}

func (a *Accumulator) wasPersisted(key, val string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev, ok := a.persisted[key]
	return ok && prev == val
}

func (a *Accumulator) markPersisted(key, val string) {
	a.mu.Lock()
	a.persisted[key] = val
	a.mu.Unlock()
}

// writeOrder writes topics before the outline that references them.
func writeOrder(enc map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(enc))
	for k := range enc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := isTopicKey(keys[i]), isTopicKey(keys[j])
		if ti != tj {
			return ti
		}
		return keys[i] < keys[j]
	})
	return keys
}

func projectSignature(s *State) string {
	return fmt.Sprintf("%d|%s", int(s.Current), s.Visited.Encode())
}
