package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// GridUnits is the width of the grid system.
const GridUnits = 12

// screenSizes are the column option keys understood as width overrides, in
// class order.
var screenSizes = []string{"xs", "sm", "md", "lg"}

// BootstrapGrid renders a Bootstrap 3 grid: the top level is a fluid
// container, horizontal containers are rows and columns are col-* divs.
// With DataAttributes set, structural nodes carry the data-id and
// data-contains attributes the client-side editor looks for.
type BootstrapGrid struct {
	DataAttributes bool
}

func (g BootstrapGrid) RenderTopLevel(c *domain.Node, coll *Collection) string {
	return g.TopLevel(coll.Identify(c), g.children(c, coll))
}

func (g BootstrapGrid) RenderHorizontal(c *domain.Node, coll *Collection) string {
	return g.Row(coll.Identify(c), g.columns(c, coll))
}

func (g BootstrapGrid) RenderColumn(c *domain.Node, coll *Collection) string {
	return g.children(c, coll)
}

func (g BootstrapGrid) children(c *domain.Node, coll *Collection) string {
	var b strings.Builder
	for _, child := range c.Children() {
		b.WriteString(coll.Rendered(child))
	}
	return b.String()
}

func (g BootstrapGrid) columns(c *domain.Node, coll *Collection) string {
	if c.IsEmpty() {
		return ""
	}
	var b strings.Builder
	def := DefaultColumnWidth(c.Count())
	for _, col := range c.Children() {
		b.WriteString(g.Column(coll.Identify(col), ColumnClasses(col.Options, def), coll.Rendered(col)))
	}
	return b.String()
}

// TopLevel wraps the markup of a layout.
func (g BootstrapGrid) TopLevel(identifier, inner string) string {
	return `<div class="container-fluid"` + g.attrs(identifier, "0") + `>` + inner + `</div>`
}

// Row wraps the columns of a horizontal container.
func (g BootstrapGrid) Row(identifier, inner string) string {
	return `<div class="row"` + g.attrs(identifier, "") + `>` + inner + `</div>`
}

// Column wraps the content of one column.
func (g BootstrapGrid) Column(identifier, classes, inner string) string {
	return `<div class="` + classes + `"` + g.attrs(identifier, "1") + `>` + inner + `</div>`
}

func (g BootstrapGrid) attrs(identifier, contains string) string {
	if !g.DataAttributes {
		return ""
	}
	out := ` data-id="` + html.EscapeString(identifier) + `"`
	if contains != "" {
		out = ` data-contains="` + contains + `"` + out
	}
	return out
}

// DefaultColumnWidth returns floor(12/n), the width each of n columns gets
// when nothing overrides it.
func DefaultColumnWidth(n int) int {
	if n <= 0 {
		return GridUnits
	}
	return GridUnits / n
}

// ColumnClasses returns the col-* classes of a column. Integer options named
// after a screen size override the default md width.
func ColumnClasses(opts domain.Options, defaultMD int) string {
	classes := make([]string, 0, len(screenSizes))
	for _, size := range screenSizes {
		width := opts.Int(size, 0)
		if width <= 0 || width > GridUnits {
			if size != "md" || defaultMD <= 0 {
				continue
			}
			width = defaultMD
		}
		classes = append(classes, fmt.Sprintf("col-%s-%d", size, width))
	}
	return strings.Join(classes, " ")
}
