package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// OutlineGrid renders the bare structure of a tree as XML, one element per
// node, with items shown by type and payload instead of their content.
//
//	<vertical id="container:vbox/1">
//	  <horizontal id="container:hbox/C1">
//	    <column id="container:vbox/C11"><item id="leaf:a/1"/></column>
//	  </horizontal>
//	</vertical>
type OutlineGrid struct{}

func (OutlineGrid) RenderTopLevel(c *domain.Node, coll *Collection) string {
	return `<vertical id="` + OutlineID(c) + `">` + outlineChildren(c, coll) + `</vertical>`
}

func (OutlineGrid) RenderHorizontal(c *domain.Node, coll *Collection) string {
	var b strings.Builder
	b.WriteString(`<horizontal id="` + OutlineID(c) + `">`)
	for _, col := range c.Children() {
		b.WriteString(`<column id="` + OutlineID(col) + `">` + coll.Raw(col) + `</column>`)
	}
	b.WriteString(`</horizontal>`)
	return b.String()
}

func (OutlineGrid) RenderColumn(c *domain.Node, coll *Collection) string {
	return outlineChildren(c, coll)
}

func (OutlineGrid) RenderLeaf(item *domain.Node) string {
	return `<item id="` + OutlineID(item) + `"/>`
}

func outlineChildren(c *domain.Node, coll *Collection) string {
	var b strings.Builder
	for _, child := range c.Children() {
		b.WriteString(coll.Raw(child))
	}
	return b.String()
}

// OutlineID returns the outline identifier of n: container:hbox/ID for
// horizontal containers, container:vbox/ID for the top level and columns,
// leaf:TYPE/PAYLOAD for items.
func OutlineID(n *domain.Node) string {
	var id string
	switch n.Kind {
	case domain.KindHorizontal:
		id = "container:hbox/" + n.ID
	case domain.KindItem:
		id = fmt.Sprintf("leaf:%s/%d", n.ItemType, n.PayloadID)
	default:
		id = "container:vbox/" + n.ID
	}
	return html.EscapeString(id)
}
