package domain

import (
	"fmt"
	"time"
)

// Attributes are the indexed summary columns of a layout. Nil means unset.
type Attributes struct {
	NodeID *int64
	SiteID *int64
	Region *string
}

// Layout is the aggregate root: summary attributes plus exactly one
// top-level container owning the node tree.
type Layout struct {
	ID int64
	Attributes
	CreatedAt time.Time
	UpdatedAt time.Time

	root *Node
}

// NewLayout returns a layout with an empty top-level container.
func NewLayout(id int64, attrs Attributes) *Layout {
	return &Layout{ID: id, Attributes: attrs, root: NewTopLevel(id)}
}

// NewLayoutWithRoot wraps an already built tree. The root must be a
// top-level container whose storage id matches the layout id.
func NewLayoutWithRoot(id int64, attrs Attributes, root *Node) (*Layout, error) {
	if root == nil || root.Kind != KindTopLevel {
		return nil, fmt.Errorf("%w: layout %d root must be a top-level container", ErrValidation, id)
	}
	if root.parent != nil {
		return nil, fmt.Errorf("%w: layout %d root has a parent", ErrValidation, id)
	}
	if want := NewTopLevel(id).ID; root.ID != want {
		return nil, fmt.Errorf("%w: layout %d root id %q, want %q", ErrValidation, id, root.ID, want)
	}
	root.setLayoutID(id)
	return &Layout{ID: id, Attributes: attrs, root: root}, nil
}

// TopLevel returns the root container.
func (l *Layout) TopLevel() *Node { return l.root }

// Find returns the node with the given storage id, or nil.
func (l *Layout) Find(storageID string) *Node {
	return l.root.Find(storageID)
}

// NodeCount returns the number of nodes in the tree, root included.
func (l *Layout) NodeCount() int {
	count := 0
	_ = l.root.Walk(func(*Node) error {
		count++
		return nil
	})
	return count
}

func (l *Layout) container(id string) (*Node, error) {
	c := l.Find(id)
	if c == nil {
		return nil, fmt.Errorf("%w: container %q not found in layout %d", ErrValidation, id, l.ID)
	}
	if !c.IsContainer() {
		return nil, fmt.Errorf("%w: node %q is a %s, not a container", ErrValidation, id, c.Kind)
	}
	return c, nil
}

func (l *Layout) horizontal(id string) (*Node, error) {
	c, err := l.container(id)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindHorizontal {
		return nil, fmt.Errorf("%w: node %q is a %s, not a horizontal container", ErrValidation, id, c.Kind)
	}
	return c, nil
}

// InsertInto attaches child to the container identified by containerID.
func (l *Layout) InsertInto(containerID string, child *Node, position int) error {
	c, err := l.container(containerID)
	if err != nil {
		return err
	}
	return c.Insert(child, position)
}

// InsertColumnContainer inserts a horizontal container holding columnCount
// empty columns.
func (l *Layout) InsertColumnContainer(containerID string, position, columnCount int) (*Node, error) {
	if columnCount < 1 {
		return nil, fmt.Errorf("%w: column count must be at least 1, got %d", ErrValidation, columnCount)
	}
	c, err := l.container(containerID)
	if err != nil {
		return nil, err
	}
	h := NewHorizontal("")
	for i := 0; i < columnCount; i++ {
		if _, err := h.AppendColumn(""); err != nil {
			return nil, err
		}
	}
	if err := c.Insert(h, position); err != nil {
		return nil, err
	}
	return h, nil
}

// InsertColumn adds an empty column to a horizontal container.
func (l *Layout) InsertColumn(horizontalID string, position int) (*Node, error) {
	h, err := l.horizontal(horizontalID)
	if err != nil {
		return nil, err
	}
	return h.InsertColumn("", position)
}

// RemoveColumn removes the column at position of a horizontal container.
func (l *Layout) RemoveColumn(horizontalID string, position int) error {
	h, err := l.horizontal(horizontalID)
	if err != nil {
		return err
	}
	return h.RemoveColumnAt(position)
}

// Remove detaches the node with the given storage id together with its
// subtree. The top-level container cannot be removed.
func (l *Layout) Remove(storageID string) (*Node, error) {
	n := l.Find(storageID)
	if n == nil {
		return nil, fmt.Errorf("%w: node %q not found in layout %d", ErrValidation, storageID, l.ID)
	}
	if n == l.root {
		return nil, fmt.Errorf("%w: the top-level container cannot be removed", ErrValidation)
	}
	if err := n.Detach(); err != nil {
		return nil, err
	}
	return n, nil
}

// Duplicate clones the node with the given storage id and inserts the copy
// right after the source.
func (l *Layout) Duplicate(storageID string) (*Node, error) {
	n := l.Find(storageID)
	if n == nil {
		return nil, fmt.Errorf("%w: node %q not found in layout %d", ErrValidation, storageID, l.ID)
	}
	if n == l.root {
		return nil, fmt.Errorf("%w: the top-level container cannot be duplicated", ErrValidation)
	}
	clone := n.Clone()
	if err := n.parent.Insert(clone, n.Position()+1); err != nil {
		return nil, err
	}
	return clone, nil
}

// SetOptions replaces the options bag of a node.
func (l *Layout) SetOptions(storageID string, opts Options) error {
	n := l.Find(storageID)
	if n == nil {
		return fmt.Errorf("%w: node %q not found in layout %d", ErrValidation, storageID, l.ID)
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	n.Options = opts.Clone()
	return nil
}
