package transform

import (
	"fmt"

	"github.com/cozy/prosemirror-lists/model"
)

// ReplaceStep replaces a run of children of an element with other
// (detached) nodes. Insertions and removals are both replace steps.
type ReplaceStep struct {
	Parent   *model.Node
	Index    int
	Count    int
	Inserted []*model.Node

	removed []*model.Node
	stepMap *StepMap
}

// NewReplaceStep creates a step removing count children of parent from
// index, and inserting the given nodes in their place.
func NewReplaceStep(parent *model.Node, index, count int, inserted ...*model.Node) *ReplaceStep {
	return &ReplaceStep{Parent: parent, Index: index, Count: count, Inserted: inserted}
}

// Apply is a method of the Step interface.
func (s *ReplaceStep) Apply(doc *model.Document) error {
	if err := checkAttached(s.Parent); err != nil {
		return err
	}
	if s.Index < 0 || s.Count < 0 || s.Index+s.Count > s.Parent.ChildCount() {
		return fmt.Errorf("%w: replace %d+%d in %s", model.ErrPositionOutOfRange, s.Index, s.Count, s.Parent.Name)
	}
	for _, node := range s.Inserted {
		if node.Parent() != nil {
			return fmt.Errorf("cannot insert %s: it already has a parent", node)
		}
	}

	offset := 0
	if child := s.Parent.Child(s.Index); child != nil {
		offset = child.StartOffset()
	} else {
		offset = s.Parent.MaxOffset()
	}

	doc.Differ.BufferChildren(s.Parent)
	s.removed = s.Parent.RemoveChildren(s.Index, s.Count)
	s.Parent.InsertChildren(s.Index, s.Inserted...)

	s.stepMap = NewStepMap(s.Parent, offset, sizeOf(s.removed), sizeOf(s.Inserted), s.removed)
	return nil
}

// Removed returns the nodes removed by the step, once applied.
func (s *ReplaceStep) Removed() []*model.Node {
	return s.removed
}

// GetMap is a method of the Step interface.
func (s *ReplaceStep) GetMap() *StepMap {
	if s.stepMap == nil {
		return EmptyStepMap
	}
	return s.stepMap
}

// Invert is a method of the Step interface.
func (s *ReplaceStep) Invert() Step {
	return NewReplaceStep(s.Parent, s.Index, len(s.Inserted), s.removed...)
}

func sizeOf(nodes []*model.Node) int {
	size := 0
	for _, n := range nodes {
		size += n.OffsetSize()
	}
	return size
}

var _ Step = &ReplaceStep{}
