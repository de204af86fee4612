package service

import (
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// remapStorageIDs points media at renamed blobs. References to blobs not
// in ids are left alone.
func remapStorageIDs(pf *domain.ProjectFile, ids map[string]string) {
	remap := func(media []domain.Media) {
		for i := range media {
			if newID, ok := ids[media[i].StorageID]; ok {
				media[i].StorageID = newID
			}
		}
	}
	if c := pf.CourseContent; c != nil {
		for _, pageID := range c.PageIDs() {
			if owner := c.MediaOwner(pageID); owner != nil {
				remap(*owner)
			}
		}
	}
	remap(pf.Media.Images)
	remap(pf.Media.Videos)
	remap(pf.Media.Audio)
	remap(pf.Media.Captions)
}

// libraryAppend adds m to the project media catalogue list for its type.
func libraryAppend(lib *domain.MediaLibrary, m domain.Media) {
	switch m.Type {
	case domain.MediaImage:
		lib.Images = append(lib.Images, m)
	case domain.MediaVideo:
		lib.Videos = append(lib.Videos, m)
	case domain.MediaAudio:
		lib.Audio = append(lib.Audio, m)
	case domain.MediaCaption:
		lib.Captions = append(lib.Captions, m)
	}
}

// libraryRemove drops every entry with id from the catalogue.
func libraryRemove(lib *domain.MediaLibrary, id string) {
	drop := func(media []domain.Media) []domain.Media {
		out := media[:0:0]
		for _, m := range media {
			if m.ID != id {
				out = append(out, m)
			}
		}
		return out
	}
	lib.Images = drop(lib.Images)
	lib.Videos = drop(lib.Videos)
	lib.Audio = drop(lib.Audio)
	lib.Captions = drop(lib.Captions)
}
