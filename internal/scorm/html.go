package scorm

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

//go:embed assets/*
var assets embed.FS

var (
	pageTemplate  = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))
	indexTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))
)

// mediaView is one rendered media element.
type mediaView struct {
	ID     string
	Kind   string // image, iframe, video or audio
	Src    string
	Title  string
	Tracks []mediaView
}

type pageView struct {
	ID             string
	Kind           PageKind
	Title          string
	Content        template.HTML
	Narration      string
	Objectives     []string
	Media          []mediaView
	KnowledgeCheck []domain.Question
	Questions      []domain.Question
	PassMark       int
}

type indexView struct {
	Title string
	Pages []PagePlan
}

func renderPage(v pageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html.tmpl", v); err != nil {
		return nil, fmt.Errorf("rendering page %s: %w", v.ID, err)
	}
	return buf.Bytes(), nil
}

func renderIndex(v indexView) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.ExecuteTemplate(&buf, "index.html.tmpl", v); err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	return buf.Bytes(), nil
}

// mediaViews maps a page's media to elements. Captions attach to the
// page's first audio element; stored media missing from loaded are
// skipped and reported through warn.
func mediaViews(pageID string, media []domain.Media, loaded map[string]*loadedMedia, warn func(string)) []mediaView {
	var views []mediaView
	var tracks []mediaView
	audioAt := -1

	for _, m := range media {
		src := m.URL
		if needsBytes(m) {
			lm := loaded[m.ID]
			if lm == nil || lm.File == "" {
				continue
			}
			src = lm.File
		}
		title := m.Title
		if title == "" {
			title = m.ID
		}

		switch m.Type {
		case domain.MediaImage:
			views = append(views, mediaView{ID: m.ID, Kind: "image", Src: src, Title: title})
		case domain.MediaVideo:
			if embed, ok := embedURL(m); ok {
				views = append(views, mediaView{ID: m.ID, Kind: "iframe", Src: embed, Title: title})
			} else if m.IsExternal() {
				views = append(views, mediaView{ID: m.ID, Kind: "iframe", Src: src, Title: title})
			} else {
				views = append(views, mediaView{ID: m.ID, Kind: "video", Src: src, Title: title})
			}
		case domain.MediaAudio:
			if audioAt < 0 {
				audioAt = len(views)
			}
			views = append(views, mediaView{ID: m.ID, Kind: "audio", Src: src, Title: title})
		case domain.MediaCaption:
			tracks = append(tracks, mediaView{ID: m.ID, Kind: "track", Src: src, Title: title})
		default:
			warn(fmt.Sprintf("page %s: media %s has unknown type %q; skipped", pageID, m.ID, m.Type))
		}
	}

	if len(tracks) > 0 {
		if audioAt < 0 {
			warn(fmt.Sprintf("page %s: captions without narration audio; skipped", pageID))
		} else {
			views[audioAt].Tracks = tracks
		}
	}
	return views
}
