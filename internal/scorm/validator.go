package scorm

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ExpectedFiles should be present in every package; a missing one is a
// warning only.
var ExpectedFiles = []string{
	FileManifest,
	FileScormAPI,
	FileStyles,
	DirPages + "welcome.html",
	DirPages + "objectives.html",
	DirPages + "assessment.html",
}

const (
	initializeExposure = "window.initializeCourse = initializeCourse"
	maxInspectedFile   = 16 << 20
)

var (
	trackingDeclRe   = regexp.MustCompile(`(let|var|const)\s+answeredQuestions`)
	inlineScriptRe   = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script\s*>`)
	srcAttrRe        = regexp.MustCompile(`(?i)(^|\s)src\s*=`)
	initializeCallRe = regexp.MustCompile(`\binitializeCourse\s*\(\s*\)`)
	pageLoadBlockRe  = regexp.MustCompile(`\.then\(\s*(function\s*\(\s*html\s*\)|\(?\s*html\s*\)?\s*=>)`)
)

// Finding is one validator result. Line is 1-based, 0 when not
// applicable.
type Finding struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	switch {
	case f.File != "" && f.Line > 0:
		return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Message)
	case f.File != "":
		return fmt.Sprintf("%s: %s", f.File, f.Message)
	default:
		return f.Message
	}
}

// Info summarizes what the validator saw.
type Info struct {
	FileCount            int   `json:"fileCount"`
	UncompressedBytes    int64 `json:"uncompressedBytes"`
	PageCount            int   `json:"pageCount"`
	ManifestItems        int   `json:"manifestItems"`
	TrackingDeclarations int   `json:"trackingDeclarations"`
	DeclarationLines     []int `json:"declarationLines,omitempty"`
}

// Report is the outcome of Validate. IsValid is true iff Errors is empty.
type Report struct {
	IsValid  bool      `json:"isValid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Info     Info      `json:"info"`
}

func (r *Report) errorf(file string, line int, format string, args ...any) {
	r.Errors = append(r.Errors, Finding{File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(file string, line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Finding{File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Validate inspects a package without modifying it. Every check runs, so
// the report is complete even when early checks fail.
func Validate(data []byte) *Report {
	r := &Report{Errors: []Finding{}, Warnings: []Finding{}}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		r.errorf("", 0, "not a readable ZIP archive: %v", err)
		return r
	}

	files := make(map[string][]byte, len(zr.File))
	var htmlFiles []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		r.Info.FileCount++
		r.Info.UncompressedBytes += int64(f.UncompressedSize64)
		if err := checkPath(f.Name); err != nil {
			r.errorf(f.Name, 0, "unsafe entry path")
			continue
		}
		if !inspected(f.Name) {
			files[f.Name] = nil
			continue
		}
		body, err := readZipFile(f)
		if err != nil {
			r.errorf(f.Name, 0, "unreadable: %v", err)
			continue
		}
		files[f.Name] = body
		if isHTML(f.Name) {
			htmlFiles = append(htmlFiles, f.Name)
			if strings.HasPrefix(f.Name, DirPages) {
				r.Info.PageCount++
			}
		}
	}

	checkNavigation(r, files)

	if _, ok := files[FileIndex]; !ok {
		r.errorf(FileIndex, 0, "%s not found", FileIndex)
	}

	for _, name := range htmlFiles {
		checkInlineInitialization(r, name, files[name])
	}

	for _, name := range ExpectedFiles {
		if _, ok := files[name]; !ok {
			r.warnf(name, 0, "%s not found", name)
		}
	}

	if body, ok := files[FileManifest]; ok {
		checkManifest(r, body)
	}

	checkStructure(r, files, htmlFiles)

	r.IsValid = len(r.Errors) == 0
	return r
}

func inspected(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".js", ".xml", ".css":
		return true
	}
	return false
}

func isHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	body, err := io.ReadAll(io.LimitReader(rc, maxInspectedFile+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxInspectedFile {
		return nil, fmt.Errorf("larger than %d bytes", maxInspectedFile)
	}
	return body, nil
}

func checkNavigation(r *Report, files map[string][]byte) {
	body, ok := files[FileNavigation]
	if !ok {
		r.errorf(FileNavigation, 0, "%s not found", FileNavigation)
		return
	}
	src := string(body)

	matches := trackingDeclRe.FindAllStringIndex(src, -1)
	r.Info.TrackingDeclarations = len(matches)
	for _, m := range matches {
		r.Info.DeclarationLines = append(r.Info.DeclarationLines, lineAt(src, m[0]))
	}
	if len(matches) > 1 {
		lines := make([]string, len(r.Info.DeclarationLines))
		for i, l := range r.Info.DeclarationLines {
			lines[i] = fmt.Sprint(l)
		}
		r.errorf(FileNavigation, r.Info.DeclarationLines[1],
			"answeredQuestions declared %d times (lines %s); it must be declared exactly once",
			len(matches), strings.Join(lines, ", "))
	}

	if !strings.Contains(src, initializeExposure) {
		r.errorf(FileNavigation, 0, "missing %q; initializeCourse is unreachable from pages", initializeExposure)
	}
}

// checkInlineInitialization flags inline scripts that call
// initializeCourse(); initialization belongs to navigation.js only.
func checkInlineInitialization(r *Report, name string, body []byte) {
	src := string(body)
	for _, m := range inlineScriptRe.FindAllStringSubmatchIndex(src, -1) {
		attrs := src[m[2]:m[3]]
		if srcAttrRe.MatchString(attrs) {
			continue
		}
		script := src[m[4]:m[5]]
		for _, call := range initializeCallRe.FindAllStringIndex(script, -1) {
			r.errorf(name, lineAt(src, m[4]+call[0]),
				"inline <script> calls initializeCourse(); initialization must only happen in %s", FileNavigation)
		}
	}
}

func checkManifest(r *Report, body []byte) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			r.errorf(FileManifest, line, "not well-formed XML: %v", err)
			return
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			sawRoot = true
			var hasNS, hasSchemaLoc bool
			for _, a := range se.Attr {
				if a.Name.Space == "" && a.Name.Local == "xmlns" && a.Value != "" {
					hasNS = true
				}
				if a.Name.Local == "schemaLocation" && a.Value != "" {
					hasSchemaLoc = true
				}
			}
			if se.Name.Local != "manifest" {
				r.warnf(FileManifest, 0, "root element is <%s>, expected <manifest>", se.Name.Local)
			}
			if !hasNS {
				r.warnf(FileManifest, 0, "manifest has no xmlns attribute")
			}
			if !hasSchemaLoc {
				r.warnf(FileManifest, 0, "manifest has no xsi:schemaLocation attribute")
			}
		}
		if se.Name.Local == "item" {
			r.Info.ManifestItems++
		}
	}
	if r.Info.ManifestItems == 0 {
		r.warnf(FileManifest, 0, "manifest declares no <item> entries")
	}
}

func lineAt(src string, offset int) int {
	return strings.Count(src[:offset], "\n") + 1
}

// markerRule is a string a generated file is expected to contain.
type markerRule struct {
	marker  string
	message string
}

var structureRules = map[string][]markerRule{
	FileNavigation: {
		{"shouldBlockNavigation()", "navigation blocking function not found"},
		{"updateNavigationState()", "navigation state update not found"},
		{"[SCORM Navigation] Sidebar click:", "sidebar navigation logging not found"},
		{"window.checkFillInBlank", "fill-in-blank check function not found"},
		{"window.checkMultipleChoice", "multiple choice check function not found"},
	},
	FileStyles: {
		{"height: 100vh", "body is missing height: 100vh"},
		{".footer", "footer styles missing"},
		{".nav-button:disabled", "disabled navigation button styles missing"},
	},
	FileIndex: {
		{`id="prev-button"`, "previous button not found"},
		{`id="next-button"`, "next button not found"},
		{`id="content-container"`, "content container not found"},
		{`id="scorm-alert-container"`, "alert container not found"},
	},
}

// Files are checked in a fixed order so reports are stable.
var structureFiles = []string{FileNavigation, FileStyles, FileIndex}

const (
	audioInitCall     = "initializePageAudio(pageId)"
	maxStateUpdateGap = 500
	footerPushingRule = "min-height: 800px !important"
)

// checkStructure reports generated-markup drift as warnings: a package
// missing these still loads, but navigation or knowledge checks degrade.
// Absent files are reported by the existence checks.
func checkStructure(r *Report, files map[string][]byte, htmlFiles []string) {
	for _, name := range structureFiles {
		body, ok := files[name]
		if !ok {
			continue
		}
		src := string(body)
		for _, rule := range structureRules[name] {
			if !strings.Contains(src, rule.marker) {
				r.warnf(name, 0, "%s", rule.message)
			}
		}
		switch name {
		case FileNavigation:
			checkStateUpdateOrder(r, src)
		case FileStyles:
			if i := strings.Index(src, footerPushingRule); i >= 0 {
				r.warnf(name, lineAt(src, i), "%q pushes the footer off screen", footerPushingRule)
			}
		}
	}

	for _, name := range htmlFiles {
		if !strings.HasPrefix(name, DirPages) {
			continue
		}
		src := string(files[name])
		if !strings.Contains(src, "knowledge-check-container") {
			continue
		}
		if strings.Contains(src, "fill-blank-") && !strings.Contains(src, "kc-fill-blank") {
			r.warnf(name, 0, "fill-in-blank input missing the kc-fill-blank class")
		}
		if !strings.Contains(src, `onclick="window.submitAllKnowledgeChecks`) {
			r.warnf(name, 0, "knowledge check submit button missing its submitAllKnowledgeChecks handler")
		}
	}
}

// checkStateUpdateOrder requires the page load block to refresh navigation
// state right after page audio is initialized.
func checkStateUpdateOrder(r *Report, src string) {
	block := pageLoadBlockRe.FindStringIndex(src)
	if block == nil {
		r.warnf(FileNavigation, 0, "page load block not found")
		return
	}
	audio := strings.Index(src[block[0]:], audioInitCall)
	if audio < 0 {
		r.warnf(FileNavigation, lineAt(src, block[0]), "%s not found in the page load block", audioInitCall)
		return
	}
	audio += block[0]
	gap := strings.Index(src[audio:], "updateNavigationState()")
	switch {
	case gap < 0:
		r.warnf(FileNavigation, lineAt(src, audio), "updateNavigationState() not called after %s", audioInitCall)
	case gap > maxStateUpdateGap:
		r.warnf(FileNavigation, lineAt(src, audio), "updateNavigationState() too far from %s", audioInitCall)
	}
}
