package model

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffType is the kind of a DiffItem.
type DiffType int

const (
	// DiffInsert is emitted for a node inserted in the document.
	DiffInsert DiffType = iota
	// DiffRemove is emitted for a node removed from the document.
	DiffRemove
	// DiffAttribute is emitted for each attribute of a node that was set,
	// changed or removed.
	DiffAttribute
)

// String returns the name of the diff type.
func (t DiffType) String() string {
	switch t {
	case DiffInsert:
		return "insert"
	case DiffRemove:
		return "remove"
	case DiffAttribute:
		return "attribute"
	}
	return "unknown"
}

// DiffItem describes one change made to the document by a batch. Positions
// are expressed in the document as it is after the batch.
type DiffItem struct {
	Type DiffType
	// The name of the inserted, removed or changed node.
	Name string
	// For insertions and removals, where it happened. For attribute
	// changes, the position before the changed node.
	Position Position
	// The inserted node, the removed (now detached) node, or the node whose
	// attribute changed.
	Node *Node
	// The attributes of the inserted or removed node.
	Attributes map[string]interface{}

	AttributeKey      string
	AttributeOldValue interface{}
	AttributeNewValue interface{}
}

// Range returns the range of an attribute change: the changed node.
func (d DiffItem) Range() Range {
	if d.Type == DiffAttribute {
		return NewRange(d.Position, PositionAt(d.Position.Parent, d.Position.Offset+d.Node.OffsetSize()))
	}
	return NewRange(d.Position)
}

// String returns a debug representation of the item.
func (d DiffItem) String() string {
	if d.Type == DiffAttribute {
		return fmt.Sprintf("attribute %s %s: %v -> %v", d.Position, d.AttributeKey, d.AttributeOldValue, d.AttributeNewValue)
	}
	return fmt.Sprintf("%s %s %s", d.Type, d.Position, d.Name)
}

// Differ buffers the state of the parts of the tree that are about to be
// modified, and computes the list of changes when asked to.
//
// Children lists and attribute sets are snapshotted only once per batch,
// before the first mutation, so the resulting changes describe the
// difference between the state before the batch and after it, whatever the
// number of intermediate steps.
type Differ struct {
	children map[*Node][]*Node
	attrs    map[*Node]map[string]interface{}
}

// NewDiffer creates an empty differ.
func NewDiffer() *Differ {
	d := &Differ{}
	d.Reset()
	return d
}

// BufferChildren must be called before the children of parent are modified.
func (d *Differ) BufferChildren(parent *Node) {
	if _, ok := d.children[parent]; ok {
		return
	}
	snapshot := make([]*Node, len(parent.children))
	copy(snapshot, parent.children)
	d.children[parent] = snapshot
}

// BufferAttributes must be called before the attributes of node are
// modified.
func (d *Differ) BufferAttributes(node *Node) {
	if _, ok := d.attrs[node]; ok {
		return
	}
	d.attrs[node] = copyAttrs(node.Attrs)
}

// IsEmpty is true when nothing was buffered since the last reset.
func (d *Differ) IsEmpty() bool {
	return len(d.children) == 0 && len(d.attrs) == 0
}

// Reset forgets everything buffered.
func (d *Differ) Reset() {
	d.children = map[*Node][]*Node{}
	d.attrs = map[*Node]map[string]interface{}{}
}

// Changes computes the changes made since the last reset, in document order.
func (d *Differ) Changes() []DiffItem {
	inserted := map[*Node]bool{}
	for parent, old := range d.children {
		before := make(map[*Node]bool, len(old))
		for _, n := range old {
			before[n] = true
		}
		for _, n := range parent.children {
			if !before[n] {
				inserted[n] = true
			}
		}
	}

	parents := map[*Node]bool{}
	for parent := range d.children {
		parents[parent] = true
	}
	for node := range d.attrs {
		if node.parent != nil {
			parents[node.parent] = true
		}
	}

	var ordered []*Node
	for parent := range parents {
		if !parent.IsAttached() || isInside(parent, inserted) {
			continue
		}
		ordered = append(ordered, parent)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return comparePaths(ordered[i].Path(), ordered[j].Path()) < 0
	})

	var changes []DiffItem
	for _, parent := range ordered {
		changes = append(changes, d.diffParent(parent)...)
	}
	return changes
}

func (d *Differ) diffParent(parent *Node) []DiffItem {
	current := parent.children
	old, ok := d.children[parent]
	if !ok {
		old = current
	}

	offsets := make([]int, len(current)+1)
	for i, n := range current {
		offsets[i+1] = offsets[i] + n.OffsetSize()
	}

	matcher := difflib.NewMatcher(nodeKeys(old), nodeKeys(current))
	var changes []DiffItem
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.J2-op.J1; k++ {
				node := current[op.J1+k]
				changes = append(changes, d.diffAttributes(node, PositionAt(parent, offsets[op.J1+k]))...)
			}
		case 'd', 'r', 'i':
			if op.Tag != 'i' {
				for _, removed := range old[op.I1:op.I2] {
					attrs := removed.Attrs
					if snap, ok := d.attrs[removed]; ok {
						attrs = snap
					}
					changes = append(changes, DiffItem{
						Type:       DiffRemove,
						Name:       removed.Name,
						Position:   PositionAt(parent, offsets[op.J1]),
						Node:       removed,
						Attributes: copyAttrs(attrs),
					})
				}
			}
			if op.Tag != 'd' {
				for k := op.J1; k < op.J2; k++ {
					node := current[k]
					changes = append(changes, DiffItem{
						Type:       DiffInsert,
						Name:       node.Name,
						Position:   PositionAt(parent, offsets[k]),
						Node:       node,
						Attributes: copyAttrs(node.Attrs),
					})
				}
			}
		}
	}
	return changes
}

func (d *Differ) diffAttributes(node *Node, pos Position) []DiffItem {
	snap, ok := d.attrs[node]
	if !ok {
		return nil
	}
	keys := map[string]bool{}
	for k := range snap {
		keys[k] = true
	}
	for k := range node.Attrs {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []DiffItem
	for _, key := range sorted {
		oldValue, newValue := snap[key], node.Attrs[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes = append(changes, DiffItem{
			Type:              DiffAttribute,
			Name:              node.Name,
			Position:          pos,
			Node:              node,
			AttributeKey:      key,
			AttributeOldValue: oldValue,
			AttributeNewValue: newValue,
		})
	}
	return changes
}

func nodeKeys(nodes []*Node) []string {
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = fmt.Sprintf("%p", n)
	}
	return keys
}

func isInside(node *Node, set map[*Node]bool) bool {
	for n := node; n != nil; n = n.parent {
		if set[n] {
			return true
		}
	}
	return false
}
