package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display. Prefix holds the connector
// characters for its depth, built by the caller while walking.
type TreeItem struct {
	Prefix string
	Title  string
	Style  lipgloss.Style
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// treePrefixes returns the connector for a child and the indent its own
// children inherit.
func treePrefixes(indent string, isLast bool) (string, string) {
	if isLast {
		return indent + treeCorner, indent + treeSpace
	}
	return indent + treeBranch, indent + treePipe
}

// RenderTree renders items one per line with detail badges right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		contents[i] = StyleDim.Render(item.Prefix) + item.Style.Render(item.Title)
		if w := lipgloss.Width(contents[i]); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := max(widest-lipgloss.Width(contents[i]), 0)
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleDim.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
