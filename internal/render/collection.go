package render

import "github.com/alexanderramin/gridlayout/internal/domain"

// Placeholder replaces the markup of items whose type failed to render or
// rendered nothing, so the node stays visible and addressable.
const Placeholder = `<p class="text-danger">Broken or missing item</p>`

// Collection holds the markup produced during one render pass, keyed by node
// identity. A node is rendered at most once per pass.
type Collection struct {
	rendered map[*domain.Node]string
}

func NewCollection() *Collection {
	return &Collection{rendered: make(map[*domain.Node]string)}
}

// Identify returns the identifier clients use to address n in drag and drop
// events and action links.
func (c *Collection) Identify(n *domain.Node) string {
	return n.ID
}

// Has reports whether n was already rendered in this pass.
func (c *Collection) Has(n *domain.Node) bool {
	_, ok := c.rendered[n]
	return ok
}

// Set records the markup of n.
func (c *Collection) Set(n *domain.Node, markup string) {
	c.rendered[n] = markup
}

// Raw returns the markup recorded for n without placeholder substitution.
func (c *Collection) Raw(n *domain.Node) string {
	return c.rendered[n]
}

// Rendered returns the markup recorded for n. Items with no markup get the
// placeholder.
func (c *Collection) Rendered(n *domain.Node) string {
	out := c.rendered[n]
	if out == "" && n.Kind == domain.KindItem {
		return Placeholder
	}
	return out
}

// Len returns the number of rendered nodes.
func (c *Collection) Len() int { return len(c.rendered) }
