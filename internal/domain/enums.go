package domain

type NodeKind string

const (
	KindTopLevel   NodeKind = "top"
	KindHorizontal NodeKind = "hbox"
	KindColumn     NodeKind = "column"
	KindItem       NodeKind = "item"
)

// IsContainer reports whether nodes of this kind own children.
func (k NodeKind) IsContainer() bool {
	switch k {
	case KindTopLevel, KindHorizontal, KindColumn:
		return true
	default:
		return false
	}
}

// Label returns the human-facing name of the kind, used in menus and CLI output.
func (k NodeKind) Label() string {
	switch k {
	case KindTopLevel:
		return "Top level container"
	case KindHorizontal:
		return "Columns container"
	case KindColumn:
		return "Column"
	case KindItem:
		return "Item"
	default:
		return string(k)
	}
}

// canContain reports whether a container of kind parent may own a child of
// kind child. Columns live only inside horizontal containers, and horizontal
// containers own nothing but columns.
func canContain(parent, child NodeKind) bool {
	switch parent {
	case KindHorizontal:
		return child == KindColumn
	case KindTopLevel, KindColumn:
		return child == KindItem || child == KindHorizontal
	default:
		return false
	}
}

// CanContain reports whether a container of kind k may own a child of kind
// child.
func (k NodeKind) CanContain(child NodeKind) bool {
	return canContain(k, child)
}
