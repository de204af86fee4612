package scorm

import (
	"fmt"
	"strings"
)

// FormatReport renders a report as plain multi-line text. Findings keep
// their file:line location so duplicate declarations can be traced.
func FormatReport(r *Report) string {
	var b strings.Builder
	status := "VALID"
	if !r.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(&b, "SCORM package: %s\n", status)

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(r.Errors))
		for _, f := range r.Errors {
			fmt.Fprintf(&b, "  x %s\n", f)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(r.Warnings))
		for _, f := range r.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", f)
		}
	}

	b.WriteString("\nInfo:\n")
	fmt.Fprintf(&b, "  files: %d (%d bytes uncompressed)\n", r.Info.FileCount, r.Info.UncompressedBytes)
	fmt.Fprintf(&b, "  pages: %d\n", r.Info.PageCount)
	fmt.Fprintf(&b, "  manifest items: %d\n", r.Info.ManifestItems)
	fmt.Fprintf(&b, "  answeredQuestions declarations: %d", r.Info.TrackingDeclarations)
	if len(r.Info.DeclarationLines) > 0 {
		lines := make([]string, len(r.Info.DeclarationLines))
		for i, l := range r.Info.DeclarationLines {
			lines[i] = fmt.Sprint(l)
		}
		fmt.Fprintf(&b, " (%s line %s)", FileNavigation, strings.Join(lines, ", "))
	}
	b.WriteByte('\n')
	return b.String()
}
