package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Node is one vertex of a layout tree. Kind selects the variant: containers
// (KindTopLevel, KindHorizontal, KindColumn) own ordered children, items
// (KindItem) carry a type identifier and a payload id. A node's position is
// its index in the parent's child slice, so sibling positions are always the
// contiguous range 0..n-1.
type Node struct {
	ID      string
	Kind    NodeKind
	Options Options

	ItemType  string // KindItem only
	PayloadID int64  // KindItem only

	layoutID int64
	parent   *Node
	children []*Node
}

// NewStorageID returns a fresh node storage identifier.
func NewStorageID() string {
	return uuid.New().String()
}

// NewTopLevel creates the root container of a layout. Its storage id is the
// layout id in decimal.
func NewTopLevel(layoutID int64) *Node {
	return &Node{
		ID:       strconv.FormatInt(layoutID, 10),
		Kind:     KindTopLevel,
		Options:  Options{},
		layoutID: layoutID,
	}
}

// NewHorizontal creates a detached horizontal container. An empty id gets a
// generated one.
func NewHorizontal(id string) *Node {
	return newContainer(id, KindHorizontal)
}

// NewColumn creates a detached column container. An empty id gets a
// generated one.
func NewColumn(id string) *Node {
	return newContainer(id, KindColumn)
}

func newContainer(id string, kind NodeKind) *Node {
	if id == "" {
		id = NewStorageID()
	}
	return &Node{ID: id, Kind: kind, Options: Options{}}
}

// NewItem creates a detached item with a generated storage id.
func NewItem(typeID string, payloadID int64, opts Options) *Node {
	return &Node{
		ID:        NewStorageID(),
		Kind:      KindItem,
		Options:   opts.Clone(),
		ItemType:  typeID,
		PayloadID: payloadID,
	}
}

func (n *Node) Parent() *Node { return n.parent }

// LayoutID returns the id of the layout the node is attached to, or 0 for a
// detached node.
func (n *Node) LayoutID() int64 { return n.layoutID }

func (n *Node) IsContainer() bool { return n.Kind.IsContainer() }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Count() int { return len(n.children) }

func (n *Node) IsEmpty() bool { return len(n.children) == 0 }

// At returns the child at position, or nil when out of range.
func (n *Node) At(position int) *Node {
	if position < 0 || position >= len(n.children) {
		return nil
	}
	return n.children[position]
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Position returns the node's index among its siblings; the root is at 0.
func (n *Node) Position() int {
	if n.parent == nil {
		return 0
	}
	return n.parent.IndexOf(n)
}

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Path returns the ancestor chain from the root down to n inclusive.
func (n *Node) Path() []*Node {
	var rev []*Node
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur)
	}
	path := make([]*Node, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// IsAncestorOf reports whether n appears strictly above other in the tree.
func (n *Node) IsAncestorOf(other *Node) bool {
	for cur := other.parent; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order. Returning an error stops
// the walk.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the node with the given storage id in n's subtree.
func (n *Node) Find(storageID string) *Node {
	if n.ID == storageID {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(storageID); found != nil {
			return found
		}
	}
	return nil
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) error {
	return n.Insert(child, len(n.children))
}

// Insert attaches a detached child at position. Positions beyond the child
// count clamp to append; negative positions clamp to 0.
func (n *Node) Insert(child *Node, position int) error {
	if err := n.checkInsert(child); err != nil {
		return err
	}
	n.insertAt(child, position)
	return nil
}

func (n *Node) checkInsert(child *Node) error {
	if !n.IsContainer() {
		return fmt.Errorf("%w: node %q (%s) is not a container", ErrValidation, n.ID, n.Kind)
	}
	if child == nil {
		return fmt.Errorf("%w: cannot insert a nil node", ErrValidation)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: node %q is already attached to %q", ErrValidation, child.ID, child.parent.ID)
	}
	if child == n || child.IsAncestorOf(n) {
		return fmt.Errorf("%w: node %q cannot contain itself", ErrValidation, child.ID)
	}
	if !canContain(n.Kind, child.Kind) {
		return fmt.Errorf("%w: a %s cannot contain a %s", ErrValidation, n.Kind, child.Kind)
	}
	if child.ID == "" {
		return fmt.Errorf("%w: node has no storage id", ErrValidation)
	}
	root := n.Root()
	return child.Walk(func(d *Node) error {
		if root.Find(d.ID) != nil {
			return fmt.Errorf("%w: storage id %q is already used in this layout", ErrValidation, d.ID)
		}
		return nil
	})
}

// insertAt attaches child without validation, clamping position into
// 0..Count().
func (n *Node) insertAt(child *Node, position int) {
	position = clamp(position, 0, len(n.children))
	n.children = append(n.children, nil)
	copy(n.children[position+1:], n.children[position:])
	n.children[position] = child
	child.parent = n
	child.setLayoutID(n.layoutID)
}

// RemoveAt detaches and returns the child at position; following siblings
// shift down by one.
func (n *Node) RemoveAt(position int) (*Node, error) {
	if position < 0 || position >= len(n.children) {
		return nil, fmt.Errorf("%w: no child at position %d of %q (count %d)", ErrValidation, position, n.ID, len(n.children))
	}
	child := n.children[position]
	n.children = append(n.children[:position], n.children[position+1:]...)
	child.parent = nil
	child.setLayoutID(0)
	return child, nil
}

// Detach removes n from its parent.
func (n *Node) Detach() error {
	if n.parent == nil {
		return fmt.Errorf("%w: node %q has no parent", ErrValidation, n.ID)
	}
	_, err := n.parent.RemoveAt(n.parent.IndexOf(n))
	return err
}

// AppendColumn adds a column to a horizontal container.
func (n *Node) AppendColumn(id string) (*Node, error) {
	return n.InsertColumn(id, len(n.children))
}

// InsertColumn adds a column to a horizontal container at position.
func (n *Node) InsertColumn(id string, position int) (*Node, error) {
	if n.Kind != KindHorizontal {
		return nil, fmt.Errorf("%w: node %q is not a horizontal container", ErrValidation, n.ID)
	}
	col := NewColumn(id)
	if err := n.Insert(col, position); err != nil {
		return nil, err
	}
	return col, nil
}

// ColumnAt returns the column at position of a horizontal container.
func (n *Node) ColumnAt(position int) *Node {
	if n.Kind != KindHorizontal {
		return nil
	}
	return n.At(position)
}

// RemoveColumnAt removes the column at position of a horizontal container,
// along with everything it holds.
func (n *Node) RemoveColumnAt(position int) error {
	if n.Kind != KindHorizontal {
		return fmt.Errorf("%w: node %q is not a horizontal container", ErrValidation, n.ID)
	}
	_, err := n.RemoveAt(position)
	return err
}

// Clone returns a detached deep copy with fresh storage ids. The copy shares
// no state with the source: options are copied and children are cloned.
// Cloning the top-level container yields a detached top-level container.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:        NewStorageID(),
		Kind:      n.Kind,
		Options:   n.Options.Clone(),
		ItemType:  n.ItemType,
		PayloadID: n.PayloadID,
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (n *Node) setLayoutID(id int64) {
	n.layoutID = id
	for _, c := range n.children {
		c.setLayoutID(id)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
