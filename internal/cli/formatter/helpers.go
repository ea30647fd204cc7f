package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
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
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Hours formats labor hours compactly: whole numbers lose the decimal.
func Hours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%.0fh", h)
	}
	return fmt.Sprintf("%.1fh", h)
}

// SignedHours formats an hour delta with an explicit sign, colored by
// direction. Negative movement is real information on a progress report,
// not an error, so it gets yellow rather than red.
func SignedHours(h float64) string {
	switch {
	case h > 0:
		return StyleGreen.Render(fmt.Sprintf("+%s", Hours(h)))
	case h < 0:
		return StyleYellow.Render(fmt.Sprintf("-%s", Hours(-h)))
	default:
		return StyleDim.Render("0h")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
