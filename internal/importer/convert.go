package importer

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
)

// Attributes returns the layout attributes named by bp.
func (bp *Blueprint) Attributes() domain.Attributes {
	return domain.Attributes{NodeID: bp.Layout.NodeID, SiteID: bp.Layout.SiteID, Region: bp.Layout.Region}
}

// Convert builds the blueprint's nodes into the top-level container of l.
// Refs are file-local: containers get fresh storage ids and items are
// hydrated through types. Call ValidateBlueprint first; Convert assumes the
// blueprint is valid.
func Convert(bp *Blueprint, l *domain.Layout, types *itemtype.Registry) error {
	byParent := make(map[string][]NodeImport)
	for _, n := range bp.Nodes {
		byParent[n.ParentRef] = append(byParent[n.ParentRef], n)
	}
	for _, children := range byParent {
		sort.SliceStable(children, func(i, j int) bool { return children[i].Order < children[j].Order })
	}

	var attach func(parent *domain.Node, ref string) error
	attach = func(parent *domain.Node, ref string) error {
		for _, n := range byParent[ref] {
			node := newNode(n, types)
			if err := parent.Append(node); err != nil {
				return fmt.Errorf("placing %q: %w", n.Ref, err)
			}
			if err := attach(node, n.Ref); err != nil {
				return err
			}
		}
		return nil
	}
	if len(bp.Layout.RootOptions) > 0 {
		l.TopLevel().Options = domain.Options(bp.Layout.RootOptions).Clone()
	}
	return attach(l.TopLevel(), "")
}

func newNode(n NodeImport, types *itemtype.Registry) *domain.Node {
	var node *domain.Node
	switch validNodeKinds[n.Kind] {
	case domain.KindHorizontal:
		node = domain.NewHorizontal(domain.NewStorageID())
	case domain.KindColumn:
		node = domain.NewColumn(domain.NewStorageID())
	default:
		return types.Create(n.Type, n.Payload, domain.Options(n.Options).Clone())
	}
	if len(n.Options) > 0 {
		node.Options = domain.Options(n.Options).Clone()
	}
	return node
}

// Export describes l as a blueprint. Storage ids become refs and positions
// become orders, so importing the result rebuilds the same shape.
func Export(l *domain.Layout) *Blueprint {
	bp := &Blueprint{Layout: LayoutImport{NodeID: l.NodeID, SiteID: l.SiteID, Region: l.Region}}
	root := l.TopLevel()
	if len(root.Options) > 0 {
		bp.Layout.RootOptions = root.Options.Clone()
	}
	_ = root.Walk(func(n *domain.Node) error {
		if n == root {
			return nil
		}
		imp := NodeImport{Ref: n.ID, Kind: string(n.Kind), Order: n.Position()}
		if p := n.Parent(); p != root {
			imp.ParentRef = p.ID
		}
		if n.Kind == domain.KindItem {
			imp.Type = n.ItemType
			imp.Payload = n.PayloadID
		}
		if len(n.Options) > 0 {
			imp.Options = n.Options.Clone()
		}
		bp.Nodes = append(bp.Nodes, imp)
		return nil
	})
	return bp
}
