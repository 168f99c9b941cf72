package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Widths are measured on visible text so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	measure := func(i int, cell string) {
		if w := lipgloss.Width(cell); w > widths[i] {
			widths[i] = w
		}
	}
	for i, h := range headers {
		measure(i, h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			measure(i, row[i])
		}
	}

	var b strings.Builder
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}
	writeRow(&b, widths, styled)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	writeRow(&b, widths, sep)

	for _, row := range rows {
		writeRow(&b, widths, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, widths []int, cells []string) {
	last := len(widths) - 1
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(cell)
		if i < last {
			b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
		}
	}
	b.WriteString("\n")
}
