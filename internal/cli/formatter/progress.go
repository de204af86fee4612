package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// StepProgress returns the share of wizard steps visited.
func StepProgress(visited domain.StepSet) float64 {
	return float64(len(visited.Sorted())) / float64(domain.StepCount)
}

// RenderSteps lists every wizard step with a marker: ▶ for the current
// step, ✓ for visited steps and · for the rest.
func RenderSteps(current domain.Step, visited domain.StepSet) string {
	var b strings.Builder
	for _, step := range domain.AllSteps() {
		marker := StyleDim.Render("·")
		label := StyleDim.Render(step.Label())
		switch {
		case step == current:
			marker = StyleHeader.Render("▶")
			label = Bold(step.Label())
		case visited[step]:
			marker = StyleGreen.Render("✓")
			label = StyleFg.Render(step.Label())
		}
		fmt.Fprintf(&b, "  %s %d %s %s\n", marker, int(step)+1, label, Dim("("+step.String()+")"))
	}
	return b.String()
}
