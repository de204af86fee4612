package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestamp renders t relative to now ("3 hours ago"); timestamps
// older than a week fall back to the calendar date.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	if now.Sub(t) > 7*24*time.Hour {
		return t.Local().Format("Jan 2, 2006")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Size renders a byte count ("1.2 MB").
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// TruncID returns the dimmed first 8 characters of an id.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// MediaTypeBadge colors a media type name.
func MediaTypeBadge(t domain.MediaType) string {
	switch t {
	case domain.MediaImage:
		return StyleBlue.Render(string(t))
	case domain.MediaVideo:
		return StylePurple.Render(string(t))
	case domain.MediaAudio:
		return StyleGreen.Render(string(t))
	case domain.MediaCaption:
		return StyleYellow.Render(string(t))
	default:
		return StyleDim.Render(string(t))
	}
}

// Difficulty renders "3/5 Medium" style labels.
func Difficulty(d int, label string) string {
	if d == 0 {
		return Dim("--")
	}
	return StyleFg.Render(fmt.Sprintf("%d/5", d)) + " " + Dim(label)
}
