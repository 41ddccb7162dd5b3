package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// TextName is the name given to text nodes.
const TextName = "$text"

// RootName is the name of the root element of a document.
const RootName = "$root"

// Node represents a node in the tree that makes up a document. A document is
// a root Node whose children are blocks, and blocks hold text nodes.
//
// Unlike the persistent nodes of the view layer, model nodes are mutable and
// keep a pointer to their parent, so that siblings and ancestors can be
// reached from any node. Only the transform package should mutate them, so
// that every change goes through a Writer and is seen by the Differ.
type Node struct {
	// The name of the element ("paragraph", "heading"...) or TextName.
	Name string
	// An object mapping attribute names to values.
	Attrs map[string]interface{}
	// For text nodes, this contains the node's text content.
	Text string

	children []*Node
	parent   *Node
}

// NewElement creates a detached element with the given attributes and
// children.
func NewElement(name string, attrs map[string]interface{}, children ...*Node) *Node {
	n := &Node{Name: name, Attrs: copyAttrs(attrs)}
	n.InsertChildren(0, children...)
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Name: TextName, Text: text}
}

// IsText returns true for text nodes.
func (n *Node) IsText() bool {
	return n.Name == TextName
}

// IsElement returns true for any node that is not text.
func (n *Node) IsElement() bool {
	return !n.IsText()
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root returns the topmost ancestor of the node.
func (n *Node) Root() *Node {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// IsAttached reports whether the node belongs to a tree whose root is a
// document root.
func (n *Node) IsAttached() bool {
	return n.Root().Name == RootName
}

// Children returns the children of the node. The returned slice must not be
// modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount is the number of children that the node has.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child gets the child node at the given index, or nil if it does not exist.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// Index is the position of the node in its parent's children, or -1 when
// the node is detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, child := range n.parent.children {
		if child == n {
			return i
		}
	}
	return -1
}

// PreviousSibling returns the node just before this one in its parent.
func (n *Node) PreviousSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent.Child(n.Index() - 1)
}

// NextSibling returns the node just after this one in its parent.
func (n *Node) NextSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	index := n.Index()
	if index < 0 {
		return nil
	}
	return n.parent.Child(index + 1)
}

// OffsetSize is the size of the node in the offset space of its parent. For
// text nodes, this is the amount of characters. For elements, it is one.
func (n *Node) OffsetSize() int {
	if n.IsText() {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

// StartOffset is the offset at which this node starts in its parent.
func (n *Node) StartOffset() int {
	if n.parent == nil {
		return 0
	}
	offset := 0
	for _, child := range n.parent.children {
		if child == n {
			return offset
		}
		offset += child.OffsetSize()
	}
	return -1
}

// EndOffset is the offset just after this node in its parent.
func (n *Node) EndOffset() int {
	return n.StartOffset() + n.OffsetSize()
}

// MaxOffset is the sum of the offset sizes of all children.
func (n *Node) MaxOffset() int {
	size := 0
	for _, child := range n.children {
		size += child.OffsetSize()
	}
	return size
}

// IsEmpty is true when the element has no children.
func (n *Node) IsEmpty() bool {
	return len(n.children) == 0
}

// HasAttribute checks if the node has the given attribute.
func (n *Node) HasAttribute(key string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Attrs[key]
	return ok
}

// GetAttribute returns the value of an attribute, or nil.
func (n *Node) GetAttribute(key string) interface{} {
	if n == nil {
		return nil
	}
	return n.Attrs[key]
}

// AttributeKeys returns the sorted names of the node's attributes.
func (n *Node) AttributeKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindAncestor returns the closest ancestor (not including the node itself)
// with the given name.
func (n *Node) FindAncestor(name string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Path returns the start offsets of the node and its ancestors, starting
// from the root.
func (n *Node) Path() []int {
	var path []int
	for node := n; node.parent != nil; node = node.parent {
		path = append([]int{node.StartOffset()}, path...)
	}
	return path
}

// TextContent concatenates all the text nodes found in this node and its
// descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SameAttributes compares the attributes of two nodes.
func (n *Node) SameAttributes(other *Node) bool {
	if len(n.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(n.Attrs, other.Attrs)
}

// Clone creates a detached deep copy of the node.
func (n *Node) Clone() *Node {
	if n.IsText() {
		return NewText(n.Text)
	}
	children := make([]*Node, len(n.children))
	for i, child := range n.children {
		children[i] = child.Clone()
	}
	return NewElement(n.Name, n.Attrs, children...)
}

// String returns a string representation of this node for debugging
// purposes.
func (n *Node) String() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.Text)
	}
	name := n.Name
	if len(n.Attrs) > 0 {
		parts := make([]string, 0, len(n.Attrs))
		for _, k := range n.AttributeKeys() {
			parts = append(parts, fmt.Sprintf("%s=%v", k, n.Attrs[k]))
		}
		name += "[" + strings.Join(parts, " ") + "]"
	}
	if len(n.children) > 0 {
		inner := make([]string, len(n.children))
		for i, child := range n.children {
			inner[i] = child.String()
		}
		name += "(" + strings.Join(inner, ", ") + ")"
	}
	return name
}

func copyAttrs(attrs map[string]interface{}) map[string]interface{} {
	if len(attrs) == 0 {
		return nil
	}
	cpy := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		cpy[k] = v
	}
	return cpy
}
