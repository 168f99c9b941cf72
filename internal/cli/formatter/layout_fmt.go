package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// FormatLayoutList renders one row per layout.
func FormatLayoutList(layouts []*domain.Layout, now time.Time) string {
	rows := make([][]string, 0, len(layouts))
	for _, l := range layouts {
		rows = append(rows, []string{
			Bold(strconv.FormatInt(l.ID, 10)),
			Nullable(l.NodeID),
			Nullable(l.SiteID),
			Nullable(l.Region),
			strconv.Itoa(l.NodeCount() - 1),
			HumanTimestamp(l.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "NODE", "SITE", "REGION", "NODES", "UPDATED"}, rows)
}

// FormatLayoutTree renders the node tree of l, one line per node.
func FormatLayoutTree(l *domain.Layout) string {
	root := l.TopLevel()
	items := []TreeItem{{
		Title:  fmt.Sprintf("Layout %d", l.ID),
		Style:  KindStyle(root.Kind),
		Detail: nodeDetail(root),
	}}
	var walk func(n *domain.Node, indent string)
	walk = func(n *domain.Node, indent string) {
		children := n.Children()
		for i, c := range children {
			prefix, childIndent := treePrefixes(indent, i == len(children)-1)
			items = append(items, TreeItem{
				Prefix: prefix,
				Title:  nodeTitle(c),
				Style:  KindStyle(c.Kind),
				Detail: nodeDetail(c),
			})
			walk(c, childIndent)
		}
	}
	walk(root, "")

	header := fmt.Sprintf("node %s  site %s  region %s",
		Nullable(l.NodeID), Nullable(l.SiteID), Nullable(l.Region))
	return RenderBox(fmt.Sprintf("Layout %d", l.ID), header+"\n\n"+strings.TrimRight(RenderTree(items), "\n"))
}

func nodeTitle(n *domain.Node) string {
	if n.Kind == domain.KindItem {
		return fmt.Sprintf("%s %s#%d", n.ID, n.ItemType, n.PayloadID)
	}
	return n.ID + " " + Dim(strings.ToLower(n.Kind.Label()))
}

func nodeDetail(n *domain.Node) string {
	keys := n.Options.Keys()
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, n.Options[k]))
	}
	return strings.Join(parts, " ")
}

// FormatToken renders an edit token and the layouts it unlocks.
func FormatToken(t *domain.EditToken) string {
	ids := make([]string, len(t.LayoutIDs))
	for i, id := range t.LayoutIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s\n%s %s", Bold(t.Token), Dim("layouts:"), strings.Join(ids, ", "))
}

// FormatPage renders assembled regions in name order, each under a header.
func FormatPage(regions map[string][]string) string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(name) + "\n")
		for _, markup := range regions[name] {
			b.WriteString(markup + "\n")
		}
	}
	return b.String()
}
