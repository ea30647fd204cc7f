package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mhollis/spooltally/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CompletionStyle returns the style for a 0-100 completion percentage:
// green when done, yellow in flight, dim when untouched.
func CompletionStyle(pct float64) lipgloss.Style {
	switch {
	case domain.IsComplete(pct):
		return StyleGreen
	case pct > 0:
		return StyleYellow
	default:
		return StyleDim
	}
}

// CategoryBadge returns a colored short label for a milestone category.
func CategoryBadge(cat domain.Category) string {
	label := strings.ToUpper(string(cat))
	switch cat {
	case domain.CategoryReceive:
		return StyleBlue.Render(label)
	case domain.CategoryInstall:
		return StyleGreen.Render(label)
	case domain.CategoryPunch:
		return StyleYellow.Render(label)
	case domain.CategoryTest:
		return StylePurple.Render(label)
	case domain.CategoryRestore:
		return StyleFg.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warn renders a yellow warning line.
func Warn(text string) string {
	return StyleYellow.Render("⚠ " + text)
}
