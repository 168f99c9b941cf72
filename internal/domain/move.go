package domain

import "fmt"

// MoveRequest describes a drop gesture: put the node NodeID into
// ContainerID, preceded by Position structural siblings. Position comes from
// the client and is clamped against the container's real child count.
type MoveRequest struct {
	NodeID      string
	ContainerID string
	Position    int
}

// Move validates req against the current tree and applies it. Either every
// check passes and the node is relocated, or the tree is left untouched.
func (l *Layout) Move(req MoveRequest) error {
	node := l.Find(req.NodeID)
	if node == nil {
		return fmt.Errorf("%w: item %q not found in layout %d", ErrValidation, req.NodeID, l.ID)
	}
	target := l.Find(req.ContainerID)
	if target == nil {
		return fmt.Errorf("%w: container %q not found in layout %d", ErrValidation, req.ContainerID, l.ID)
	}
	if !target.IsContainer() {
		return fmt.Errorf("%w: move target %q is a %s, not a container", ErrValidation, target.ID, target.Kind)
	}
	if node.parent == nil {
		return fmt.Errorf("%w: the top-level container cannot be moved", ErrValidation)
	}
	if node == target || node.IsAncestorOf(target) {
		return fmt.Errorf("%w: cannot move %q into itself or one of its descendants", ErrValidation, node.ID)
	}
	if !canContain(target.Kind, node.Kind) {
		return fmt.Errorf("%w: a %s cannot be moved into a %s", ErrValidation, node.Kind, target.Kind)
	}

	source := node.parent
	idx := source.IndexOf(node)
	source.children = append(source.children[:idx], source.children[idx+1:]...)
	node.parent = nil
	target.insertAt(node, req.Position)
	return nil
}
