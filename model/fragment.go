package model

import "fmt"

// The functions in this file are the low-level mutation primitives of the
// tree. They do not record anything: callers are expected to notify the
// Differ before using them, which is what the transform package does.

// InsertChildren inserts the given detached nodes as children at index.
func (n *Node) InsertChildren(index int, nodes ...*Node) {
	if len(nodes) == 0 {
		return
	}
	if index < 0 || index > len(n.children) {
		panic(fmt.Errorf("index %d out of range for %s", index, n.Name))
	}
	for _, node := range nodes {
		if node.parent != nil {
			panic(fmt.Errorf("node %s is already attached", node))
		}
		node.parent = n
	}
	children := make([]*Node, 0, len(n.children)+len(nodes))
	children = append(children, n.children[:index]...)
	children = append(children, nodes...)
	children = append(children, n.children[index:]...)
	n.children = children
}

// RemoveChildren detaches count children starting at index and returns them.
func (n *Node) RemoveChildren(index, count int) []*Node {
	if index < 0 || count < 0 || index+count > len(n.children) {
		panic(fmt.Errorf("range %d+%d out of range for %s", index, count, n.Name))
	}
	removed := make([]*Node, count)
	copy(removed, n.children[index:index+count])
	for _, node := range removed {
		node.parent = nil
	}
	n.children = append(n.children[:index:index], n.children[index+count:]...)
	return removed
}

// SetAttr sets an attribute, or removes it when value is nil.
func (n *Node) SetAttr(key string, value interface{}) {
	if value == nil {
		delete(n.Attrs, key)
		if len(n.Attrs) == 0 {
			n.Attrs = nil
		}
		return
	}
	if n.Attrs == nil {
		n.Attrs = map[string]interface{}{}
	}
	n.Attrs[key] = value
}

// OffsetToIndex converts an offset in the node's children space to a child
// index. When the offset falls inside a text node, the index of that text
// node is returned along with the remaining offset inside it.
func (n *Node) OffsetToIndex(offset int) (index int, inner int) {
	pos := 0
	for i, child := range n.children {
		size := child.OffsetSize()
		if offset < pos+size {
			return i, offset - pos
		}
		pos += size
	}
	return len(n.children), offset - pos
}

// ChildAtOffset returns the child which contains the given offset, if any.
func (n *Node) ChildAtOffset(offset int) *Node {
	index, _ := n.OffsetToIndex(offset)
	return n.Child(index)
}
