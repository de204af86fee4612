package scorm

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/klauspost/compress/zip"
)

const defaultMediaConcurrency = 4

// Assembler turns course content into a SCORM 1.2 package.
type Assembler struct {
	source      MediaSource
	logger      *slog.Logger
	concurrency int
}

type AssemblerOption func(*Assembler)

func WithMediaSource(src MediaSource) AssemblerOption {
	return func(a *Assembler) { a.source = src }
}

func WithLogger(l *slog.Logger) AssemblerOption {
	return func(a *Assembler) { a.logger = logging.NewComponentLogger(l, "scorm") }
}

// WithMediaConcurrency bounds parallel media loads.
func WithMediaConcurrency(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{logger: logging.NewNop(), concurrency: defaultMediaConcurrency}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type zipEntry struct {
	Name string
	Data []byte
}

// Assemble builds the package. Missing title or topics and unsupported
// versions fail before anything is rendered; unavailable media is skipped
// with a warning.
func (a *Assembler) Assemble(ctx context.Context, input domain.CourseInput, seed domain.CourseSeedData, cfg PackageConfig) (*Package, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(seed.CourseTitle)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	content, err := Normalize(input)
	if err != nil {
		return nil, err
	}
	if len(content.Topics) == 0 {
		return nil, ErrNoTopics
	}
	passMark := cfg.passMark(content)

	pkg := &Package{Pages: planPages(content)}
	warn := func(msg string) {
		pkg.Warnings = append(pkg.Warnings, msg)
		logging.WarnWithContext(ctx, a.logger, "package media skipped", "media_skipped",
			logging.String("detail", msg),
			logging.String(logging.FieldImpact, "media omitted from package"),
		)
	}

	pageMedia := make(map[string][]domain.Media, len(pkg.Pages))
	var stored []domain.Media
	for _, p := range pkg.Pages {
		if owner := content.MediaOwner(p.ID); owner != nil {
			pageMedia[p.ID] = *owner
			for _, m := range *owner {
				if needsBytes(m) {
					stored = append(stored, m)
				}
			}
		}
	}

	loaded, err := loadMedia(ctx, a.source, stored, a.concurrency)
	if err != nil {
		return nil, fmt.Errorf("loading media: %w", err)
	}
	mediaFiles := a.resolveMediaFiles(pkg.Pages, pageMedia, loaded, warn)

	var pages []zipEntry
	for _, p := range pkg.Pages {
		view := pageView{ID: p.ID, Kind: p.Kind, Title: p.Title}
		switch p.Kind {
		case KindWelcome:
			fillFromPage(&view, content.WelcomePage)
		case KindObjectives:
			fillFromPage(&view, content.LearningObjectivesPage)
			view.Objectives = content.Objectives
		case KindTopic:
			t := content.TopicByID(p.ID)
			view.Content = template.HTML(t.Content)
			view.Narration = t.Narration
			if t.HasKnowledgeCheck() {
				view.KnowledgeCheck = t.KnowledgeCheck.Questions
			}
		case KindAssessment:
			view.Questions = content.Assessment.Questions
			view.PassMark = passMark
		}
		view.Media = mediaViews(p.ID, pageMedia[p.ID], loaded, warn)

		html, err := renderPage(view)
		if err != nil {
			return nil, err
		}
		pages = append(pages, zipEntry{Name: p.File, Data: html})
	}

	nav, err := renderNavigation(navCourse{
		Title:               title,
		Pages:               pkg.Pages,
		PassMark:            passMark,
		Completion:          cfg.CompletionCriteria,
		AssessmentQuestions: len(content.Assessment.Questions),
	})
	if err != nil {
		return nil, err
	}
	index, err := renderIndex(indexView{Title: title, Pages: pkg.Pages})
	if err != nil {
		return nil, err
	}
	css, err := assets.ReadFile("assets/main.css")
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet: %w", err)
	}
	api, err := assets.ReadFile("assets/scorm-api.js")
	if err != nil {
		return nil, fmt.Errorf("reading scorm-api.js: %w", err)
	}

	shared := []string{FileIndex, FileNavigation, FileScormAPI, FileStyles}
	for _, mf := range mediaFiles {
		shared = append(shared, mf.Name)
	}
	manifest, err := renderManifest(title, pkg.Pages, shared, passMark)
	if err != nil {
		return nil, err
	}

	entries := []zipEntry{
		{Name: FileManifest, Data: manifest},
		{Name: FileIndex, Data: index},
		{Name: FileNavigation, Data: nav},
		{Name: FileScormAPI, Data: api},
		{Name: FileStyles, Data: css},
	}
	entries = append(entries, pages...)
	entries = append(entries, mediaFiles...)

	pkg.Data, err = writeZip(entries)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		pkg.Files = append(pkg.Files, e.Name)
	}

	a.logger.InfoContext(ctx, "package assembled",
		logging.String("title", title),
		logging.Int("pages", len(pkg.Pages)),
		logging.Int("media_files", len(mediaFiles)),
		logging.Int("warnings", len(pkg.Warnings)),
		logging.Int("bytes", len(pkg.Data)),
	)
	return pkg, nil
}

func fillFromPage(v *pageView, p domain.Page) {
	v.Content = template.HTML(p.Content)
	v.Narration = p.Narration
}

// resolveMediaFiles reports failed loads, makes package file names unique
// and returns the media entries in page order.
func (a *Assembler) resolveMediaFiles(pages []PagePlan, pageMedia map[string][]domain.Media, loaded map[string]*loadedMedia, warn func(string)) []zipEntry {
	var files []zipEntry
	used := make(map[string]bool)
	done := make(map[string]bool)
	for _, p := range pages {
		for _, m := range pageMedia[p.ID] {
			lm, ok := loaded[m.ID]
			if !ok || done[m.ID] {
				continue
			}
			done[m.ID] = true
			if lm.Err != nil {
				warn(fmt.Sprintf("page %s: media %s unavailable: %v", p.ID, m.ID, lm.Err))
				lm.File = ""
				continue
			}
			if err := checkPath(lm.File); err != nil {
				warn(fmt.Sprintf("page %s: media %s: %v", p.ID, m.ID, err))
				lm.File = ""
				continue
			}
			if used[lm.File] {
				ext := lm.File[strings.LastIndex(lm.File, "."):]
				base := strings.TrimSuffix(lm.File, ext)
				for n := 2; used[lm.File]; n++ {
					lm.File = fmt.Sprintf("%s-%d%s", base, n, ext)
				}
			}
			used[lm.File] = true
			files = append(files, zipEntry{Name: lm.File, Data: lm.Data})
		}
	}
	return files
}

// writeZip writes entries in order with fixed timestamps so equal input
// yields equal bytes.
func writeZip(entries []zipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := checkPath(e.Name); err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate package entry %q", e.Name)
		}
		seen[e.Name] = true
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing zip: %w", err)
	}
	return buf.Bytes(), nil
}
