// Package render turns a layout tree into markup. A GridRenderer decides the
// markup of each container kind; Renderer drives the traversal, renders
// leaves through their item types and contains leaf failures.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
)

// GridRenderer renders containers. Children are already rendered and
// available in the collection when a container is rendered.
type GridRenderer interface {
	RenderTopLevel(c *domain.Node, coll *Collection) string
	RenderHorizontal(c *domain.Node, coll *Collection) string
	RenderColumn(c *domain.Node, coll *Collection) string
}

// LeafRenderer is implemented by grids that render items themselves instead
// of delegating to item types.
type LeafRenderer interface {
	RenderLeaf(item *domain.Node) string
}

type Renderer struct {
	types  *itemtype.Registry
	logger *slog.Logger
}

type Option func(*Renderer)

// WithLogger logs contained leaf failures to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

func NewRenderer(types *itemtype.Registry, opts ...Option) *Renderer {
	r := &Renderer{types: types}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the tree under root with grid. Items are preloaded per
// type, rendered once each, then containers are rendered bottom-up. A failing
// or panicking item never aborts the pass. Preload and Render share one
// itemtype.Pass per call.
func (r *Renderer) Render(ctx context.Context, root *domain.Node, grid GridRenderer) string {
	coll := NewCollection()
	r.renderLeaves(itemtype.WithPass(ctx), root, grid, coll)
	r.renderContainer(root, grid, coll)
	return coll.Rendered(root)
}

func (r *Renderer) renderLeaves(ctx context.Context, root *domain.Node, grid GridRenderer, coll *Collection) {
	var items []*domain.Node
	_ = root.Walk(func(n *domain.Node) error {
		if n.Kind == domain.KindItem {
			items = append(items, n)
		}
		return nil
	})

	if lr, ok := grid.(LeafRenderer); ok {
		for _, item := range items {
			coll.Set(item, lr.RenderLeaf(item))
		}
		return
	}

	r.preload(ctx, items)
	for _, item := range items {
		if coll.Has(item) {
			continue
		}
		out, err := renderItem(ctx, r.types.Get(item.ItemType), item)
		if err != nil {
			r.log().Warn("render_item_failed",
				"type", item.ItemType,
				"payload_id", item.PayloadID,
				"error", err.Error(),
			)
			out = ""
		}
		coll.Set(item, out)
	}
}

// preload groups items by type and hands each group to its type once.
func (r *Renderer) preload(ctx context.Context, items []*domain.Node) {
	byType := make(map[string][]*domain.Node)
	for _, item := range items {
		byType[item.ItemType] = append(byType[item.ItemType], item)
	}
	typeIDs := make([]string, 0, len(byType))
	for id := range byType {
		typeIDs = append(typeIDs, id)
	}
	sort.Strings(typeIDs)

	for _, id := range typeIDs {
		p, ok := r.types.Get(id).(itemtype.Preloader)
		if !ok {
			continue
		}
		if err := preloadItems(ctx, id, p, byType[id]); err != nil {
			r.log().Warn("preload_items_failed", "type", id, "count", len(byType[id]), "error", err.Error())
		}
	}
}

// renderItem renders one item, turning a panicking type into an error.
func renderItem(ctx context.Context, typ itemtype.Type, item *domain.Node) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", fmt.Errorf("item type %q panicked: %v", typ.ID(), rec)
		}
	}()
	return typ.Render(ctx, item)
}

func preloadItems(ctx context.Context, typeID string, p itemtype.Preloader, items []*domain.Node) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("item type %q panicked in preload: %v", typeID, rec)
		}
	}()
	return p.Preload(ctx, items)
}

func (r *Renderer) renderContainer(c *domain.Node, grid GridRenderer, coll *Collection) {
	for _, child := range c.Children() {
		if child.IsContainer() {
			r.renderContainer(child, grid, coll)
		}
	}
	switch c.Kind {
	case domain.KindTopLevel:
		coll.Set(c, grid.RenderTopLevel(c, coll))
	case domain.KindHorizontal:
		coll.Set(c, grid.RenderHorizontal(c, coll))
	case domain.KindColumn:
		coll.Set(c, grid.RenderColumn(c, coll))
	}
}

func (r *Renderer) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}
