package scorm

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// MediaSource supplies the bytes of stored (non-external) media.
type MediaSource interface {
	Load(ctx context.Context, m domain.Media) ([]byte, error)
}

// MediaSourceFunc adapts a function to MediaSource.
type MediaSourceFunc func(ctx context.Context, m domain.Media) ([]byte, error)

func (f MediaSourceFunc) Load(ctx context.Context, m domain.Media) ([]byte, error) { return f(ctx, m) }

// youTubeID extracts the video id from watch?v=, youtu.be/ and /embed/
// URLs.
func youTubeID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok {
			return strings.Trim(rest, "/")
		}
	}
	return ""
}

// IsYouTube reports whether raw points at a YouTube video.
func IsYouTube(raw string) bool {
	return youTubeID(raw) != ""
}

// embedURL returns the iframe URL for a video, applying clip timing.
func embedURL(m domain.Media) (string, bool) {
	if id := youTubeID(m.URL); id != "" {
		return withClip("https://www.youtube.com/embed/"+url.PathEscape(id), m), true
	}
	if m.EmbedURL != "" {
		return withClip(m.EmbedURL, m), true
	}
	return "", false
}

func withClip(base string, m domain.Media) string {
	q := url.Values{}
	if m.ClipStart != nil && *m.ClipStart > 0 {
		q.Set("start", strconv.Itoa(*m.ClipStart))
	}
	if m.ClipEnd != nil && *m.ClipEnd > 0 {
		q.Set("end", strconv.Itoa(*m.ClipEnd))
	}
	if len(q) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// loadedMedia is a stored media item resolved to a package file.
type loadedMedia struct {
	File string
	Data []byte
	Err  error
}

// mediaExtension picks a file extension from content, then from the
// media URL, then from the media type.
func mediaExtension(m domain.Media, data []byte) string {
	if m.Type == domain.MediaCaption {
		return ".vtt"
	}
	if ext := mimetype.Detect(data).Extension(); ext != "" {
		return ext
	}
	if ext := path.Ext(m.URL); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	switch m.Type {
	case domain.MediaAudio:
		return ".mp3"
	case domain.MediaVideo:
		return ".mp4"
	default:
		return ".bin"
	}
}

// needsBytes reports whether m must be copied into the package.
func needsBytes(m domain.Media) bool {
	if m.IsExternal() {
		return false
	}
	if m.Type == domain.MediaVideo {
		if _, ok := embedURL(m); ok {
			return false
		}
	}
	return true
}

// loadMedia fetches every stored media item at most once, limit at a time.
// Per-item failures are recorded on the result; only context cancellation
// fails the whole load.
func loadMedia(ctx context.Context, src MediaSource, items []domain.Media, limit int) (map[string]*loadedMedia, error) {
	out := make(map[string]*loadedMedia, len(items))
	var unique []domain.Media
	for _, m := range items {
		if _, ok := out[m.ID]; ok {
			continue
		}
		out[m.ID] = &loadedMedia{}
		unique = append(unique, m)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, m := range unique {
		res := out[m.ID]
		g.Go(func() error {
			if src == nil {
				res.Err = fmt.Errorf("no media source configured")
				return nil
			}
			data, err := src.Load(gctx, m)
			switch {
			case err != nil:
				res.Err = err
			case len(data) == 0:
				res.Err = fmt.Errorf("no bytes")
			default:
				name := Slugify(m.ID)
				if name == "" {
					name = "media"
				}
				res.Data = data
				res.File = DirMedia + name + mediaExtension(m, data)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
