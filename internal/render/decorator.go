package render

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// Routes the edit menus link to.
const (
	RouteMove               = "layout/ajax/move"
	RouteAddColumnContainer = "layout/ajax/add-column-container"
	RouteAddColumn          = "layout/ajax/add-column"
	RouteRemoveColumn       = "layout/ajax/remove-column"
	RouteRemove             = "layout/ajax/remove"
	RouteAddItem            = "layout/callback/add-item"
	RouteEditItem           = "layout/callback/edit-item"
)

// EditSession tells the decorator which layouts are editable and which
// token to put in action links.
type EditSession interface {
	CanEdit(layoutID int64) bool
	CurrentToken() string
}

// EditDecorator wraps the bootstrap grid with edit affordances: a menu per
// container and item, and a draggable wrapper around every item. Layouts the
// session cannot edit are rendered exactly as the plain grid renders them.
type EditDecorator struct {
	session EditSession
	baseURL string
	plain   BootstrapGrid
	edit    BootstrapGrid
}

func NewEditDecorator(session EditSession, baseURL string) *EditDecorator {
	if baseURL == "" {
		baseURL = "/"
	}
	return &EditDecorator{
		session: session,
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		edit:    BootstrapGrid{DataAttributes: true},
	}
}

// GridFor returns the grid for a request: the edit decorator when the
// session holds a token, the plain bootstrap grid otherwise.
func GridFor(session EditSession, baseURL string) GridRenderer {
	if session == nil || session.CurrentToken() == "" {
		return BootstrapGrid{}
	}
	return NewEditDecorator(session, baseURL)
}

func (d *EditDecorator) editable(c *domain.Node) bool {
	return d.session != nil && d.session.CurrentToken() != "" && d.session.CanEdit(c.LayoutID())
}

func (d *EditDecorator) RenderTopLevel(c *domain.Node, coll *Collection) string {
	if !d.editable(c) {
		return d.plain.RenderTopLevel(c, coll)
	}
	inner := d.menu(c, d.topLevelLinks(c)) + d.children(c, coll)
	return d.edit.TopLevel(coll.Identify(c), inner)
}

func (d *EditDecorator) RenderHorizontal(c *domain.Node, coll *Collection) string {
	if !d.editable(c) {
		return d.plain.RenderHorizontal(c, coll)
	}
	inner := d.menu(c, d.horizontalLinks(c)) + d.edit.columns(c, coll)
	return d.edit.Row(coll.Identify(c), inner)
}

func (d *EditDecorator) RenderColumn(c *domain.Node, coll *Collection) string {
	if !d.editable(c) {
		return d.plain.RenderColumn(c, coll)
	}
	return d.menu(c, d.columnLinks(c)) + d.children(c, coll)
}

func (d *EditDecorator) children(c *domain.Node, coll *Collection) string {
	var b strings.Builder
	for _, child := range c.Children() {
		if child.Kind != domain.KindItem {
			b.WriteString(coll.Rendered(child))
			continue
		}
		b.WriteString(`<div data-id="` + html.EscapeString(coll.Identify(child)) + `" data-item>`)
		b.WriteString(d.menu(child, d.itemLinks(child, c)))
		b.WriteString(coll.Rendered(child))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// menuEntry is either a link or, when route is empty, a divider.
type menuEntry struct {
	title  string
	route  string
	icon   string
	params url.Values
}

var divider = menuEntry{}

func (d *EditDecorator) menu(n *domain.Node, entries []menuEntry) string {
	title := n.Kind.Label()
	var b strings.Builder
	b.WriteString(`<div class="layout-menu">`)
	b.WriteString(`<a href="#" title="` + title + `">`)
	b.WriteString(`<span class="glyphicon glyphicon-cog" aria-hidden="true"></span>`)
	b.WriteString(`<span class="title">` + title + `</span></a><ul>`)
	for _, e := range entries {
		if e.route == "" {
			b.WriteString(`<li class="divider"></li>`)
			continue
		}
		b.WriteString(`<li>` + d.link(n, e) + `</li>`)
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func (d *EditDecorator) link(n *domain.Node, e menuEntry) string {
	q := url.Values{}
	q.Set("tokenString", d.session.CurrentToken())
	q.Set("layoutId", strconv.FormatInt(n.LayoutID(), 10))
	for k, v := range e.params {
		q[k] = v
	}
	href := d.baseURL + e.route + "?" + q.Encode()
	return `<a href="` + html.EscapeString(href) + `">` +
		`<span class="glyphicon glyphicon-` + e.icon + `" aria-hidden="true"></span> ` +
		e.title + `</a>`
}

func params(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

func itoa(i int) string { return strconv.Itoa(i) }

func (d *EditDecorator) containerLinks(c *domain.Node) []menuEntry {
	return []menuEntry{
		{"Prepend column container", RouteAddColumnContainer, "th-large",
			params("containerId", c.ID, "position", "0", "columnCount", "2")},
		{"Append column container", RouteAddColumnContainer, "th-large",
			params("containerId", c.ID, "position", itoa(c.Count()), "columnCount", "2")},
		divider,
		{"Prepend item", RouteAddItem, "picture",
			params("containerId", c.ID, "position", "0")},
		{"Append item", RouteAddItem, "picture",
			params("containerId", c.ID, "position", itoa(c.Count()))},
	}
}

func (d *EditDecorator) topLevelLinks(c *domain.Node) []menuEntry {
	return d.containerLinks(c)
}

func (d *EditDecorator) columnLinks(c *domain.Node) []menuEntry {
	parent := c.Parent()
	if parent == nil {
		return d.containerLinks(c)
	}
	index := c.Position()
	return append(d.containerLinks(c),
		divider,
		menuEntry{"Add column before", RouteAddColumn, "chevron-left",
			params("containerId", parent.ID, "position", itoa(index))},
		menuEntry{"Add column after", RouteAddColumn, "chevron-right",
			params("containerId", parent.ID, "position", itoa(index+1))},
		menuEntry{"Remove this column", RouteRemoveColumn, "remove",
			params("containerId", parent.ID, "position", itoa(index))},
	)
}

func (d *EditDecorator) horizontalLinks(c *domain.Node) []menuEntry {
	return []menuEntry{
		{"Prepend column", RouteAddColumn, "chevron-left",
			params("containerId", c.ID, "position", "0")},
		{"Append column", RouteAddColumn, "chevron-right",
			params("containerId", c.ID, "position", itoa(c.Count()))},
		{"Remove", RouteRemove, "remove",
			params("itemId", c.ID)},
	}
}

func (d *EditDecorator) itemLinks(item, parent *domain.Node) []menuEntry {
	return []menuEntry{
		{"Move to top", RouteMove, "chevron-up",
			params("itemId", item.ID, "containerId", parent.ID, "newPosition", "0")},
		{"Move to bottom", RouteMove, "chevron-down",
			params("itemId", item.ID, "containerId", parent.ID, "newPosition", itoa(parent.Count()))},
		{"Options", RouteEditItem, "cog",
			params("itemId", item.ID)},
		{"Remove", RouteRemove, "remove",
			params("itemId", item.ID)},
	}
}
