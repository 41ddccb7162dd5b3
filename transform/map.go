package transform

import (
	"fmt"

	"github.com/cozy/prosemirror-lists/model"
)

// Mappable is an interface. There are several things that positions can be
// mapped through. Such objects conform to this interface.
type Mappable interface {
	// Map a position through this object. When given, assoc (should be -1
	// or 1, defaults to 1) determines with which side the position is
	// associated, which determines in which direction to move when a chunk
	// of content is inserted at the mapped position.
	Map(pos model.Position, assoc ...int) model.Position
}

// StepMap describes the replacement made by a step in one parent: at
// Offset, OldSize units of content were replaced by NewSize units. It can be
// used to find the correspondence between positions in the pre-step version
// of a document and the same position in the post-step version.
type StepMap struct {
	Parent  *model.Node
	Offset  int
	OldSize int
	NewSize int

	removed map[*model.Node]bool
}

// NewStepMap creates a position map for a replacement in parent.
func NewStepMap(parent *model.Node, offset, oldSize, newSize int, removed []*model.Node) *StepMap {
	sm := &StepMap{Parent: parent, Offset: offset, OldSize: oldSize, NewSize: newSize}
	if len(removed) > 0 {
		sm.removed = make(map[*model.Node]bool, len(removed))
		for _, n := range removed {
			sm.removed[n] = true
		}
	}
	return sm
}

// Map is part of the Mappable interface.
//
// Positions inside removed nodes collapse to the replacement offset.
// Positions inside the replaced span keep their offset when it still fits in
// the new content, which is what text edits preserving a common prefix need.
func (sm *StepMap) Map(pos model.Position, assoc ...int) model.Position {
	if sm.Parent == nil || !pos.IsSet() {
		return pos
	}
	a := 1
	if len(assoc) > 0 {
		a = assoc[0]
	}
	for node := pos.Parent; node != nil; node = node.Parent() {
		if sm.removed[node] {
			return model.PositionAt(sm.Parent, sm.Offset)
		}
	}
	if pos.Parent != sm.Parent {
		return pos
	}
	end := sm.Offset + sm.OldSize
	switch {
	case pos.Offset < sm.Offset:
		return pos
	case pos.Offset == sm.Offset && sm.OldSize == 0:
		if a < 0 {
			return pos
		}
		return model.PositionAt(sm.Parent, sm.Offset+sm.NewSize)
	case pos.Offset >= end:
		return model.PositionAt(sm.Parent, pos.Offset+sm.NewSize-sm.OldSize)
	}
	if pos.Offset-sm.Offset <= sm.NewSize {
		return pos
	}
	return model.PositionAt(sm.Parent, sm.Offset+sm.NewSize)
}

// String returns a string representation of this StepMap.
func (sm *StepMap) String() string {
	if sm.Parent == nil {
		return "[]"
	}
	return fmt.Sprintf("%s@%d[%d->%d]", sm.Parent.Name, sm.Offset, sm.OldSize, sm.NewSize)
}

// EmptyStepMap is an empty StepMap.
var EmptyStepMap = &StepMap{}

var _ Mappable = &StepMap{}
