package model

// Selection is the document selection: an anchor where it starts and a focus
// where it ends, which may come before the anchor.
type Selection struct {
	Anchor Position
	Focus  Position
}

// NewSelection creates a selection. When focus is omitted, the selection is
// collapsed at anchor.
func NewSelection(anchor Position, focus ...Position) *Selection {
	s := &Selection{Anchor: anchor, Focus: anchor}
	if len(focus) > 0 {
		s.Focus = focus[0]
	}
	return s
}

// IsCollapsed is true when the selection is a caret.
func (s *Selection) IsCollapsed() bool {
	return s.Anchor.IsEqual(s.Focus)
}

// IsSet is false when the selection does not point anywhere.
func (s *Selection) IsSet() bool {
	return s != nil && s.Anchor.IsSet() && s.Focus.IsSet()
}

// FirstPosition returns the position that comes first in document order.
func (s *Selection) FirstPosition() Position {
	if s.Anchor.Compare(s.Focus) <= 0 {
		return s.Anchor
	}
	return s.Focus
}

// LastPosition returns the position that comes last in document order.
func (s *Selection) LastPosition() Position {
	if s.Anchor.Compare(s.Focus) <= 0 {
		return s.Focus
	}
	return s.Anchor
}

// Range returns the selection as a range.
func (s *Selection) Range() Range {
	return NewRange(s.FirstPosition(), s.LastPosition())
}

// SelectedBlocks returns the top-level blocks touched by the selection, in
// document order.
func (s *Selection) SelectedBlocks(schema *Schema) []*Node {
	if !s.IsSet() {
		return nil
	}
	first := blockAt(schema, s.FirstPosition(), true)
	last := blockAt(schema, s.LastPosition(), false)
	if first == nil || last == nil {
		return nil
	}
	if first.Parent() != last.Parent() {
		return []*Node{first}
	}
	var blocks []*Node
	for node := first; node != nil; node = node.NextSibling() {
		if schema.IsBlock(node) {
			blocks = append(blocks, node)
		}
		if node == last {
			break
		}
	}
	return blocks
}

// blockAt finds the block containing the position. Positions between blocks
// resolve forward for the start of a selection and backward for its end.
func blockAt(schema *Schema, pos Position, forward bool) *Node {
	for node := pos.Parent; node != nil; node = node.Parent() {
		if schema.IsBlock(node) {
			return node
		}
	}
	if forward {
		if after := pos.NodeAfter(); schema.IsBlock(after) {
			return after
		}
		return nil
	}
	if before := pos.NodeBefore(); schema.IsBlock(before) {
		return before
	}
	return nil
}

// BlockOf returns the block containing the position, if any.
func BlockOf(schema *Schema, pos Position) *Node {
	for node := pos.Parent; node != nil; node = node.Parent() {
		if schema.IsBlock(node) {
			return node
		}
	}
	return nil
}
