package formatter

import (
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatReport_Invalid(t *testing.T) {
	r := &scorm.Report{
		IsValid:  false,
		Errors:   []scorm.Finding{{File: "scripts/navigation.js", Line: 88, Message: "answeredQuestions declared 2 times"}},
		Warnings: []scorm.Finding{{Message: "no media folder"}},
		Info: scorm.Info{
			FileCount:            12,
			UncompressedBytes:    48_000,
			PageCount:            5,
			ManifestItems:        5,
			TrackingDeclarations: 2,
			DeclarationLines:     []int{12, 88},
		},
	}
	out := FormatReport("course.zip", r)
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "course.zip")
	assert.Contains(t, out, "Errors (1)")
	assert.Contains(t, out, "scripts/navigation.js:88: answeredQuestions declared 2 times")
	assert.Contains(t, out, "Warnings (1)")
	assert.Contains(t, out, "48 kB")
	assert.Contains(t, out, "line 12, 88")
}

func TestFormatReport_Valid(t *testing.T) {
	out := FormatReport("ok.zip", &scorm.Report{IsValid: true, Info: scorm.Info{TrackingDeclarations: 1}})
	assert.Contains(t, out, "VALID")
	assert.NotContains(t, out, "INVALID")
	assert.NotContains(t, out, "Errors")
}

func TestFormatBuild(t *testing.T) {
	out := FormatBuild(&service.BuildResult{
		Path:     "out/safety-101.zip",
		Size:     2_500_000,
		Pages:    5,
		Warnings: []string{"media m1: no stored file"},
		Report:   &scorm.Report{IsValid: true},
	})
	assert.Contains(t, out, "out/safety-101.zip")
	assert.Contains(t, out, "2.5 MB")
	assert.Contains(t, out, "5 pages")
	assert.Contains(t, out, "media m1: no stored file")
	assert.Contains(t, out, "0 errors, 0 warnings")
}
