package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/logging"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/wizard"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrNoContent is returned by media operations before course content has
// been imported.
var ErrNoContent = errors.New("no course content; import course JSON first")

type mediaService struct {
	media    repository.MediaRepo
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewMediaService(media repository.MediaRepo, logger *slog.Logger, observers ...UseCaseObserver) MediaService {
	return &mediaService{
		media:    media,
		logger:   logging.NewComponentLogger(logger, "media"),
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DetectMediaType maps sniffed content to a course media type.
func DetectMediaType(data []byte) (domain.MediaType, string, error) {
	mt := mimetype.Detect(data)
	mime := mt.String()
	switch {
	case strings.HasPrefix(mime, "image/"):
		return domain.MediaImage, mime, nil
	case strings.HasPrefix(mime, "video/"):
		return domain.MediaVideo, mime, nil
	case strings.HasPrefix(mime, "audio/"):
		return domain.MediaAudio, mime, nil
	case mt.Is("text/vtt"):
		return domain.MediaCaption, mime, nil
	}
	return "", mime, fmt.Errorf("unsupported media type %s", mime)
}

// pageMedia returns a state snapshot and the media slice of pageID in it.
func pageMedia(acc *wizard.Accumulator, pageID string) (wizard.State, *[]domain.Media, error) {
	st := acc.State()
	if acc.ProjectID() == "" {
		return st, nil, wizard.ErrNoProject
	}
	if st.Content == nil {
		return st, nil, ErrNoContent
	}
	owner := st.Content.MediaOwner(pageID)
	if owner == nil {
		return st, nil, fmt.Errorf("unknown page %q (pages: %s)", pageID, strings.Join(st.Content.PageIDs(), ", "))
	}
	return st, owner, nil
}

func (s *mediaService) AddFile(ctx context.Context, acc *wizard.Accumulator, req AddMediaRequest) (m *domain.Media, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "add-media", startedAt, err, map[string]any{
			"project_id": acc.ProjectID(),
			"page_id":    req.PageID,
			"bytes":      len(req.Data),
		})
	}()

	st, owner, err := pageMedia(acc, req.PageID)
	if err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("media file %q is empty", req.FileName)
	}
	typ, mime, err := DetectMediaType(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.FileName, err)
	}

	blob := &domain.MediaBlob{
		ID:        uuid.New().String(),
		ProjectID: acc.ProjectID(),
		PageID:    req.PageID,
		Type:      typ,
		MimeType:  mime,
		FileName:  req.FileName,
		Data:      req.Data,
		CreatedAt: s.now(),
	}
	if err := s.media.Create(ctx, blob); err != nil {
		return nil, err
	}

	added := domain.Media{
		ID:        blob.ID,
		Type:      typ,
		Title:     domain.CoalesceStr(req.Title, req.FileName),
		StorageID: blob.ID,
	}
	*owner = append(*owner, added)
	libraryAppend(&st.Media, added)

	if err := acc.Update(ctx, wizard.StepPayload{Content: st.Content, Media: &st.Media}); err != nil {
		if !errors.Is(err, wizard.ErrPersistence) {
			s.discardBlob(ctx, blob)
		}
		return nil, err
	}
	return &added, nil
}

// discardBlob removes a blob the course never came to reference.
func (s *mediaService) discardBlob(ctx context.Context, blob *domain.MediaBlob) {
	if err := s.media.Delete(ctx, blob.ID); err != nil {
		logging.WarnWithContext(ctx, s.logger, "orphaned media blob not removed", "media_cleanup_failed",
			logging.String("media_id", blob.ID),
			logging.String(logging.FieldProjectID, blob.ProjectID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "unused blob stays in the database"),
		)
	}
}

func (s *mediaService) AddExternal(ctx context.Context, acc *wizard.Accumulator, pageID string, m domain.Media) (*domain.Media, error) {
	st, owner, err := pageMedia(acc, pageID)
	if err != nil {
		return nil, err
	}
	if m.URL == "" && m.EmbedURL == "" {
		return nil, fmt.Errorf("external media needs a url")
	}
	if m.Type != domain.MediaImage && m.Type != domain.MediaVideo {
		return nil, fmt.Errorf("external media must be an image or video, got %q", m.Type)
	}
	if m.ClipStart != nil && m.ClipEnd != nil && *m.ClipEnd <= *m.ClipStart {
		return nil, fmt.Errorf("clip end (%d) must be after clip start (%d)", *m.ClipEnd, *m.ClipStart)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.StorageID = ""

	*owner = append(*owner, m)
	libraryAppend(&st.Media, m)
	if err := acc.Update(ctx, wizard.StepPayload{Content: st.Content, Media: &st.Media}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *mediaService) Remove(ctx context.Context, acc *wizard.Accumulator, pageID, mediaID string) error {
	st, owner, err := pageMedia(acc, pageID)
	if err != nil {
		return err
	}
	var removed *domain.Media
	kept := (*owner)[:0:0]
	for _, m := range *owner {
		if m.ID == mediaID && removed == nil {
			mm := m
			removed = &mm
			continue
		}
		kept = append(kept, m)
	}
	if removed == nil {
		return fmt.Errorf("media %q on page %q %w", mediaID, pageID, repository.ErrNotFound)
	}
	*owner = kept
	libraryRemove(&st.Media, mediaID)

	if err := acc.Update(ctx, wizard.StepPayload{Content: st.Content, Media: &st.Media}); err != nil {
		return err
	}
	if removed.StorageID != "" && !referenced(st.Content, removed.StorageID) {
		if err := s.media.Delete(ctx, removed.StorageID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}

func referenced(c *domain.CourseContent, storageID string) bool {
	for _, id := range c.PageIDs() {
		for _, m := range *c.MediaOwner(id) {
			if m.StorageID == storageID {
				return true
			}
		}
	}
	return false
}

func (s *mediaService) List(ctx context.Context, projectID string) ([]domain.BlobInfo, error) {
	return s.media.ListByProject(ctx, projectID)
}

// ImportNarration replaces every stored narration blob with the files in
// zipData and attaches them to their pages.
func (s *mediaService) ImportNarration(ctx context.Context, acc *wizard.Accumulator, zipData []byte) (res *NarrationResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"project_id": acc.ProjectID()}
		if res != nil {
			fields["audio"] = res.Audio
			fields["captions"] = res.Captions
			fields["warnings"] = len(res.Warnings)
		}
		observe(ctx, s.observer, "import-narration", startedAt, err, fields)
	}()

	projectID := acc.ProjectID()
	if projectID == "" {
		return nil, wizard.ErrNoProject
	}
	st := acc.State()
	if st.Content == nil {
		return nil, ErrNoContent
	}

	files, warnings, err := wizard.ParseNarrationZip(zipData, wizard.NarrationPageIDs(st.Content))
	if err != nil {
		return nil, err
	}

	if _, err := s.media.DeleteByType(ctx, projectID, domain.MediaAudio, domain.MediaCaption); err != nil {
		return nil, err
	}

	res = &NarrationResult{Warnings: warnings}
	narration := make(wizard.Narration)
	for _, f := range files {
		mime := mimetype.Detect(f.Data).String()
		blob := &domain.MediaBlob{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			PageID:    f.PageID,
			Type:      f.Type,
			MimeType:  mime,
			FileName:  f.FileName,
			Data:      f.Data,
			CreatedAt: s.now(),
		}
		if err := s.media.Create(ctx, blob); err != nil {
			return nil, err
		}
		if _, ok := narration[f.PageID]; !ok {
			res.Pages++
		}
		narration[f.PageID] = append(narration[f.PageID], domain.Media{
			ID:        blob.ID,
			Type:      f.Type,
			Title:     f.FileName,
			StorageID: blob.ID,
		})
		if f.Type == domain.MediaAudio {
			res.Audio++
		} else {
			res.Captions++
		}
	}

	if err := acc.ReplaceAudio(ctx, narration); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *mediaService) Source() scorm.MediaSource {
	return scorm.MediaSourceFunc(func(ctx context.Context, m domain.Media) ([]byte, error) {
		if m.StorageID == "" {
			return nil, fmt.Errorf("media %s has no stored file", m.ID)
		}
		blob, err := s.media.GetByID(ctx, m.StorageID)
		if err != nil {
			return nil, err
		}
		return blob.Data, nil
	})
}
