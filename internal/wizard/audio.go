package wizard

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/klauspost/compress/zip"
)

// narrationName matches "0001-welcome.mp3"; the number is the 1-based page
// position (welcome, objectives, then topics in order).
var narrationName = regexp.MustCompile(`(?i)^(\d{4})-[^/]*\.(mp3|wav|m4a|ogg|vtt)$`)

// maxNarrationFile caps a single decompressed entry.
const maxNarrationFile = 64 << 20

// NarrationFile is one audio or caption file taken from a narration ZIP.
type NarrationFile struct {
	PageID   string
	Type     domain.MediaType
	FileName string
	Data     []byte
}

// ParseNarrationZip reads a narration archive and maps each numbered file
// to a page. Entries that do not follow the naming scheme or point past
// the last page are skipped and reported as warnings.
func ParseNarrationZip(data []byte, pageIDs []string) ([]NarrationFile, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("reading narration zip: %w", err)
	}

	var files []NarrationFile
	var warnings []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		base := path.Base(f.Name)
		m := narrationName.FindStringSubmatch(base)
		if m == nil {
			warnings = append(warnings, fmt.Sprintf("%s: name does not match NNNN-name.ext", f.Name))
			continue
		}
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > len(pageIDs) {
			warnings = append(warnings, fmt.Sprintf("%s: no page at position %d", f.Name, n))
			continue
		}
		if f.UncompressedSize64 > maxNarrationFile {
			warnings = append(warnings, fmt.Sprintf("%s: larger than %d bytes", f.Name, maxNarrationFile))
			continue
		}
		body, err := readEntry(f)
		if err != nil {
			return nil, nil, err
		}
		typ := domain.MediaAudio
		if strings.EqualFold(m[2], "vtt") {
			typ = domain.MediaCaption
		}
		files = append(files, NarrationFile{PageID: pageIDs[n-1], Type: typ, FileName: base, Data: body})
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].FileName < files[j].FileName })
	return files, warnings, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	body, err := io.ReadAll(io.LimitReader(rc, maxNarrationFile+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return body, nil
}

// NarrationPageIDs returns the page ids narration files are numbered
// against.
func NarrationPageIDs(c *domain.CourseContent) []string {
	if c == nil {
		return nil
	}
	return c.PageIDs()
}
