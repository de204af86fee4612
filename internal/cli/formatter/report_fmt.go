package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/service"
)

// FormatReport renders a validation report with colored findings. Plain
// output for pipes comes from scorm.FormatReport.
func FormatReport(path string, r *scorm.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", ValidityBadge(r.IsValid), Dim(path))

	if len(r.Errors) > 0 {
		b.WriteString("\n" + StyleRed.Bold(true).Render(fmt.Sprintf("Errors (%d)", len(r.Errors))) + "\n")
		for _, f := range r.Errors {
			b.WriteString("  " + StyleRed.Render("✗") + " " + f.String() + "\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n" + StyleYellow.Bold(true).Render(fmt.Sprintf("Warnings (%d)", len(r.Warnings))) + "\n")
		for _, f := range r.Warnings {
			b.WriteString("  " + StyleYellow.Render("!") + " " + f.String() + "\n")
		}
	}

	b.WriteString("\n" + Header("Info") + "\n")
	fmt.Fprintf(&b, "  Files           %d (%s uncompressed)\n", r.Info.FileCount, Size(r.Info.UncompressedBytes))
	fmt.Fprintf(&b, "  Pages           %d\n", r.Info.PageCount)
	fmt.Fprintf(&b, "  Manifest items  %d\n", r.Info.ManifestItems)
	decl := fmt.Sprint(r.Info.TrackingDeclarations)
	if len(r.Info.DeclarationLines) > 0 {
		lines := make([]string, len(r.Info.DeclarationLines))
		for i, l := range r.Info.DeclarationLines {
			lines[i] = fmt.Sprint(l)
		}
		decl += Dim(fmt.Sprintf(" (%s line %s)", scorm.FileNavigation, strings.Join(lines, ", ")))
	}
	fmt.Fprintf(&b, "  Tracking decls  %s\n", decl)

	return RenderBox("Validation", strings.TrimRight(b.String(), "\n"))
}

// FormatBuild summarizes a finished build.
func FormatBuild(res *service.BuildResult) string {
	var b strings.Builder
	b.WriteString(Success(fmt.Sprintf("Wrote %s (%s, %d pages)", Bold(res.Path), Size(res.Size), res.Pages)) + "\n")
	for _, w := range res.Warnings {
		b.WriteString(Warning(w) + "\n")
	}
	if res.Report != nil {
		fmt.Fprintf(&b, "%s %s\n", ValidityBadge(res.Report.IsValid), Dim(fmt.Sprintf("%d errors, %d warnings", len(res.Report.Errors), len(res.Report.Warnings))))
	}
	return b.String()
}
