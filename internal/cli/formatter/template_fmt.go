package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/template"
)

// FormatTemplateList renders the preset registry.
func FormatTemplateList(entries []template.Entry) string {
	headers := []string{"#", "ID", "NAME", "TOPICS", "SOURCE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		src := e.Source
		if src != "builtin" {
			src = Dim(src)
		}
		rows = append(rows, []string{
			fmt.Sprint(e.Index),
			e.Preset.ID,
			Bold(e.Preset.Name),
			fmt.Sprint(len(e.Preset.Topics)),
			src,
		})
	}
	return RenderTable(headers, rows)
}

// FormatTemplate renders one preset with its topics.
func FormatTemplate(p *template.Preset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold(p.Name), Dim(p.ID))
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	if p.Difficulty > 0 {
		fmt.Fprintf(&b, "Suggested difficulty %d/5\n", p.Difficulty)
	}
	b.WriteString("\n" + Header("Topics") + "\n")
	for i, t := range p.Topics {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, t)
	}
	return b.String()
}
