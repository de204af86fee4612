// Package prompt renders the AI course-generation prompt from a course seed.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

//go:embed course_prompt.tmpl schema.json
var files embed.FS

var promptTemplate = template.Must(template.New("course_prompt.tmpl").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(files, "course_prompt.tmpl"))

// ErrNoTopics is returned when the seed has neither custom nor template topics.
var ErrNoTopics = errors.New("seed has no topics")

var levels = map[int]string{
	1: "Basic",
	2: "Easy",
	3: "Medium",
	4: "Hard",
	5: "Expert",
}

// Level returns the label for a 1-5 difficulty; out-of-range values are Medium.
func Level(difficulty int) string {
	if l, ok := levels[difficulty]; ok {
		return l
	}
	return levels[3]
}

type view struct {
	Title               string
	Level               string
	Difficulty          int
	Template            string
	Topics              []string
	NarrationWords      int
	AssessmentQuestions int
	Schema              string
}

// Schema returns the JSON skeleton the model is asked to follow.
func Schema() string {
	data, _ := files.ReadFile("schema.json")
	return strings.TrimSpace(string(data))
}

// Build renders the prompt. The output depends only on the seed.
func Build(seed domain.CourseSeedData) (string, error) {
	title := strings.TrimSpace(seed.CourseTitle)
	if title == "" {
		return "", errors.New("course title is required")
	}

	var topics []string
	for _, t := range seed.Topics() {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return "", ErrNoTopics
	}

	difficulty := seed.Difficulty
	if difficulty < 1 || difficulty > 5 {
		difficulty = 3
	}
	v := view{
		Title:               title,
		Level:               Level(difficulty),
		Difficulty:          difficulty,
		Topics:              topics,
		NarrationWords:      100 + 25*difficulty,
		AssessmentQuestions: assessmentSize(len(topics)),
		Schema:              Schema(),
	}
	if seed.Template != "" && seed.Template != domain.TemplateNone {
		v.Template = seed.Template
	}

	var buf bytes.Buffer
	if err := promptTemplate.ExecuteTemplate(&buf, "prompt", v); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String() + "\n", nil
}

// assessmentSize asks for two questions per topic, between 5 and 20.
func assessmentSize(topics int) int {
	n := topics * 2
	if n < 5 {
		return 5
	}
	if n > 20 {
		return 20
	}
	return n
}
