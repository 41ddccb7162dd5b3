package view

import "fmt"

// Position points into a view node: between two of its children, or inside
// it when the parent is a text node.
type Position struct {
	Parent *Node
	Offset int
}

// PositionAt creates a position.
func PositionAt(parent *Node, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

// PositionBefore creates a position before the node.
func PositionBefore(node *Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index()}
}

// PositionAfter creates a position after the node.
func PositionAfter(node *Node) Position {
	return Position{Parent: node.Parent(), Offset: node.Index() + 1}
}

// IsSet is false for the zero Position.
func (p Position) IsSet() bool {
	return p.Parent != nil
}

// NodeAfter returns the child after the position.
func (p Position) NodeAfter() *Node {
	if p.Parent == nil || p.Parent.IsText() {
		return nil
	}
	return p.Parent.Child(p.Offset)
}

// NodeBefore returns the child before the position.
func (p Position) NodeBefore() *Node {
	if p.Parent == nil || p.Parent.IsText() {
		return nil
	}
	return p.Parent.Child(p.Offset - 1)
}

// IsEqual checks whether both positions point to the same place.
func (p Position) IsEqual(other Position) bool {
	return p.Parent == other.Parent && p.Offset == other.Offset
}

// String returns a debug representation.
func (p Position) String() string {
	if p.Parent == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%s@%d", p.Parent.Name, p.Offset)
}
