package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls how a column's cells are padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style. Columns are padded to the
// maximum visible width found in each column; aligns may give per-column
// alignment (missing entries default to left, which suits text columns;
// hour and percent columns read better right-aligned).
func RenderTable(headers []string, rows [][]string, aligns ...Align) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)

	// Measure visible width, not byte length, so ANSI styling in cells
	// does not skew the padding.
	widths := make([]int, cols)
	for i, h := range headers {
		if w := lipgloss.Width(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	align := func(col int) Align {
		if col < len(aligns) {
			return aligns[col]
		}
		return AlignLeft
	}

	const colGap = 2

	var b strings.Builder

	for i, h := range headers {
		writeCell(&b, StyleHeader.Render(h), lipgloss.Width(h), widths[i], align(i), i == cols-1, colGap)
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(&b, cell, lipgloss.Width(cell), widths[i], align(i), i == cols-1, colGap)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeCell(b *strings.Builder, cell string, visible, width int, a Align, last bool, gap int) {
	pad := width - visible
	if pad < 0 {
		pad = 0
	}
	if a == AlignRight {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(cell)
		if !last {
			b.WriteString(strings.Repeat(" ", gap))
		}
		return
	}
	b.WriteString(cell)
	if !last {
		b.WriteString(strings.Repeat(" ", pad+gap))
	}
}
