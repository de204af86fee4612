package scorm

import (
	"fmt"
	"path"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// Fixed package layout.
const (
	FileIndex      = "index.html"
	FileManifest   = "imsmanifest.xml"
	FileNavigation = "scripts/navigation.js"
	FileScormAPI   = "scripts/scorm-api.js"
	FileStyles     = "styles/main.css"
	DirPages       = "pages/"
	DirMedia       = "media/"
)

const defaultPassMark = 80

// PackageConfig selects export options.
type PackageConfig struct {
	// ScormVersion must be "1.2"; empty means "1.2".
	ScormVersion string
	// PassMark, when set, is final; nil falls back to the assessment pass
	// mark and then to 80.
	PassMark           *int
	CompletionCriteria domain.CompletionCriteria
}

// ConfigFromProject maps the stored export settings to a PackageConfig.
func ConfigFromProject(c domain.ScormConfig) PackageConfig {
	pm := c.PassingScore
	return PackageConfig{ScormVersion: c.Version, PassMark: &pm, CompletionCriteria: c.CompletionCriteria}
}

func (c PackageConfig) normalized() (PackageConfig, error) {
	if c.ScormVersion == "" {
		c.ScormVersion = domain.ScormVersion12
	}
	if c.ScormVersion != domain.ScormVersion12 {
		return c, fmt.Errorf("%w %q: only %s is supported", ErrUnsupportedVersion, c.ScormVersion, domain.ScormVersion12)
	}
	if c.CompletionCriteria == "" {
		c.CompletionCriteria = domain.CompletionAll
	}
	if !domain.ValidCompletionCriteria[string(c.CompletionCriteria)] {
		return c, fmt.Errorf("unknown completion criteria %q", c.CompletionCriteria)
	}
	if c.PassMark != nil && (*c.PassMark < 0 || *c.PassMark > 100) {
		return c, fmt.Errorf("pass mark %d outside 0-100", *c.PassMark)
	}
	return c, nil
}

// Package is an assembled SCORM ZIP.
type Package struct {
	Data     []byte
	Files    []string
	Pages    []PagePlan
	Warnings []string
}

// checkPath rejects entry names that could escape the extraction root.
func checkPath(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) || strings.Contains(name, ":") {
		return fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, name)
		}
	}
	if path.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return nil
}

// passMark resolves the pass mark written into the package.
func (c PackageConfig) passMark(content *domain.CourseContent) int {
	if c.PassMark != nil {
		return *c.PassMark
	}
	return domain.CoalesceInt(content.Assessment.PassMark, defaultPassMark)
}
