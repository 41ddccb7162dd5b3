// Package view implements the rendered tree kept in sync with the model
// tree: container elements, text, and slots standing for the rendered
// content of a model block, plus the view document and its event bus.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cozy/prosemirror-lists/model"
)

// Kind tells what a view node stands for.
type Kind int

const (
	// KindRoot is the root of a view document.
	KindRoot Kind = iota
	// KindContainer is a regular element (p, ul, li...).
	KindContainer
	// KindText holds text.
	KindText
	// KindSlot is a placeholder for the rendered content of a model node.
	// Slots never survive a conversion: they are replaced by the real
	// content before the structure is inserted in the tree.
	KindSlot
	// KindUI is a presentational element with no model counterpart and a
	// model length of zero.
	KindUI
)

// Node is a node of the view tree. Unlike model nodes, view nodes are owned
// by the rendering layer and created fresh whenever a piece of the model is
// converted.
type Node struct {
	Kind  Kind
	Name  string
	Attrs map[string]string
	Text  string
	// The model node a slot stands for.
	Slot *model.Node

	children []*Node
	parent   *Node
}

// NewRoot creates a view root.
func NewRoot() *Node {
	return &Node{Kind: KindRoot, Name: "$root"}
}

// NewContainer creates an element.
func NewContainer(name string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Kind: KindContainer, Name: name, Attrs: attrs}
	n.AppendChildren(children...)
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Name: "$text", Text: text}
}

// NewSlot creates a placeholder for the content of a model node.
func NewSlot(node *model.Node) *Node {
	return &Node{Kind: KindSlot, Name: "$slot", Slot: node}
}

// NewUI creates a UI element.
func NewUI(name string, attrs map[string]string) *Node {
	return &Node{Kind: KindUI, Name: name, Attrs: attrs}
}

// Is checks the kind of node: it accepts an element name, or "$text",
// "$slot", "$root".
func (n *Node) Is(name string) bool {
	return n != nil && n.Name == name
}

// IsText returns true for text nodes.
func (n *Node) IsText() bool {
	return n.Kind == KindText
}

// Parent returns the parent node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Children returns the children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child at index, or nil.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// Index returns the index of the node in its parent, or -1.
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

// InsertChildren inserts nodes at index. Nodes which still have a parent are
// detached from it first.
func (n *Node) InsertChildren(index int, nodes ...*Node) {
	if index < 0 || index > len(n.children) {
		panic(fmt.Errorf("view: index %d out of range for %s", index, n.Name))
	}
	for _, node := range nodes {
		if node.parent != nil {
			if node.parent == n && node.Index() < index {
				index--
			}
			node.Remove()
		}
		node.parent = n
	}
	children := make([]*Node, 0, len(n.children)+len(nodes))
	children = append(children, n.children[:index]...)
	children = append(children, nodes...)
	children = append(children, n.children[index:]...)
	n.children = children
}

// AppendChildren inserts nodes at the end.
func (n *Node) AppendChildren(nodes ...*Node) {
	n.InsertChildren(len(n.children), nodes...)
}

// Remove detaches the node from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	index := n.Index()
	p := n.parent
	p.children = append(p.children[:index:index], p.children[index+1:]...)
	n.parent = nil
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() []*Node {
	removed := n.children
	for _, child := range removed {
		child.parent = nil
	}
	n.children = nil
	return removed
}

// ReplaceWith puts the given nodes in place of this one.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.parent
	if p == nil {
		return
	}
	index := n.Index()
	n.Remove()
	p.InsertChildren(index, nodes...)
}

// FindAncestor returns the closest ancestor (not including the node itself)
// with the given name.
func (n *Node) FindAncestor(name string) *Node {
	return n.FindAncestorFunc(func(a *Node) bool { return a.Name == name })
}

// FindAncestorFunc returns the closest ancestor matching the predicate.
func (n *Node) FindAncestorFunc(match func(*Node) bool) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if match(p) {
			return p
		}
	}
	return nil
}

// Walk calls fn for the node and all its descendants, depth first. When fn
// returns false, the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range append([]*Node(nil), n.children...) {
		child.Walk(fn)
	}
}

// String returns a compact representation used in tests and logs, such as
// ul(li(p("foo"))).
func (n *Node) String() string {
	switch n.Kind {
	case KindText:
		return fmt.Sprintf("%q", n.Text)
	case KindSlot:
		if n.Slot != nil {
			return "$slot<" + n.Slot.Name + ">"
		}
		return "$slot"
	}
	name := n.Name
	if len(n.Attrs) > 0 {
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + n.Attrs[k]
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
