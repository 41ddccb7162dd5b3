package model

import (
	"errors"
	"fmt"
)

// ErrPositionOutOfRange is returned when an offset does not fit in its
// parent.
var ErrPositionOutOfRange = errors.New("position out of range")

// Position points between two nodes, or inside a text node, of a parent
// element. The offset is expressed in the parent's offset space, where every
// element counts as one and every text node as its amount of characters.
type Position struct {
	// The element into which the position points.
	Parent *Node
	// The offset this position has into its parent node.
	Offset int
}

// NewPosition creates a position and checks that the offset is valid.
func NewPosition(parent *Node, offset int) (Position, error) {
	if parent == nil || parent.IsText() {
		return Position{}, fmt.Errorf("%w: invalid parent", ErrPositionOutOfRange)
	}
	if offset < 0 || offset > parent.MaxOffset() {
		return Position{}, fmt.Errorf("%w: offset %d in %s", ErrPositionOutOfRange, offset, parent.Name)
	}
	return Position{Parent: parent, Offset: offset}, nil
}

// PositionAt creates a position at the given offset of parent, without any
// checks.
func PositionAt(parent *Node, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

// PositionBefore creates a position just before the node.
func PositionBefore(node *Node) Position {
	return Position{Parent: node.Parent(), Offset: node.StartOffset()}
}

// PositionAfter creates a position just after the node.
func PositionAfter(node *Node) Position {
	return Position{Parent: node.Parent(), Offset: node.EndOffset()}
}

// PositionAtEnd creates a position at the end of the node's content.
func PositionAtEnd(node *Node) Position {
	return Position{Parent: node, Offset: node.MaxOffset()}
}

// IsSet is false for the zero Position.
func (p Position) IsSet() bool {
	return p.Parent != nil
}

// Index returns the index of the child after the position.
func (p Position) Index() int {
	index, _ := p.Parent.OffsetToIndex(p.Offset)
	return index
}

// TextNode returns the text node when the position points inside one (not
// at its boundaries).
func (p Position) TextNode() *Node {
	index, inner := p.Parent.OffsetToIndex(p.Offset)
	if inner == 0 {
		return nil
	}
	return p.Parent.Child(index)
}

// NodeAfter gets the node directly after the position, if any. When the
// position points inside a text node, nil is returned.
func (p Position) NodeAfter() *Node {
	if p.Parent == nil {
		return nil
	}
	index, inner := p.Parent.OffsetToIndex(p.Offset)
	if inner != 0 {
		return nil
	}
	return p.Parent.Child(index)
}

// NodeBefore gets the node directly before the position, if any. When the
// position points inside a text node, nil is returned.
func (p Position) NodeBefore() *Node {
	if p.Parent == nil {
		return nil
	}
	index, inner := p.Parent.OffsetToIndex(p.Offset)
	if inner != 0 {
		return nil
	}
	return p.Parent.Child(index - 1)
}

// IsAtStart is true when the position is at the beginning of its parent.
func (p Position) IsAtStart() bool {
	return p.Offset == 0
}

// IsAtEnd is true when the position is at the end of its parent.
func (p Position) IsAtEnd() bool {
	return p.Offset == p.Parent.MaxOffset()
}

// Path returns the path of the position: the path of its parent followed by
// the offset.
func (p Position) Path() []int {
	return append(p.Parent.Path(), p.Offset)
}

// Compare returns -1, 0 or 1 depending on whether p is before, at, or after
// other in document order.
func (p Position) Compare(other Position) int {
	return comparePaths(p.Path(), other.Path())
}

// IsEqual checks whether both positions point to the same place.
func (p Position) IsEqual(other Position) bool {
	return p.Parent == other.Parent && p.Offset == other.Offset
}

// String returns a debug representation of the position.
func (p Position) String() string {
	if p.Parent == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%v", p.Path())
}

func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Range is a pair of positions in the same document.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range. When end is omitted, the range is collapsed.
func NewRange(start Position, end ...Position) Range {
	r := Range{Start: start, End: start}
	if len(end) > 0 {
		r.End = end[0]
	}
	return r
}

// RangeOn creates a range containing exactly the node.
func RangeOn(node *Node) Range {
	return Range{Start: PositionBefore(node), End: PositionAfter(node)}
}

// IsCollapsed is true when the range starts where it ends.
func (r Range) IsCollapsed() bool {
	return r.Start.IsEqual(r.End)
}

// IsFlat is true when both ends share the same parent.
func (r Range) IsFlat() bool {
	return r.Start.Parent == r.End.Parent
}

// Items returns the nodes directly contained in a flat range, without
// descending into them.
func (r Range) Items() []*Node {
	if !r.IsFlat() || r.Start.Parent == nil {
		return nil
	}
	var items []*Node
	for _, child := range r.Start.Parent.Children() {
		start := child.StartOffset()
		if start >= r.Start.Offset && start+child.OffsetSize() <= r.End.Offset {
			items = append(items, child)
		}
	}
	return items
}

// String returns a debug representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}
