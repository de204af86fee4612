package scorm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// TrackingDeclaration is the only place the answer-tracking variable is
// declared. The navigation template references it and never declares it.
const TrackingDeclaration = "let answeredQuestions = {};"

var navigationTemplate = template.Must(template.ParseFS(assets, "assets/navigation.js.tmpl"))

type navCourse struct {
	Title               string                    `json:"title"`
	Pages               []PagePlan                `json:"pages"`
	PassMark            int                       `json:"passMark"`
	Completion          domain.CompletionCriteria `json:"completion"`
	AssessmentQuestions int                       `json:"assessmentQuestions"`
}

func renderNavigation(course navCourse) ([]byte, error) {
	courseJSON, err := json.Marshal(course)
	if err != nil {
		return nil, fmt.Errorf("encoding navigation data: %w", err)
	}
	data := struct {
		CourseJSON          string
		TrackingDeclaration string
	}{string(courseJSON), TrackingDeclaration}

	var buf bytes.Buffer
	if err := navigationTemplate.ExecuteTemplate(&buf, "navigation.js.tmpl", data); err != nil {
		return nil, fmt.Errorf("rendering navigation.js: %w", err)
	}
	return buf.Bytes(), nil
}
