package transform

import (
	"github.com/cozy/prosemirror-lists/model"
)

// SetAttrsStep can be used to change the attributes of a node. A nil value
// removes the attribute.
type SetAttrsStep struct {
	Node  *model.Node
	Attrs map[string]interface{}

	previous map[string]interface{}
}

// NewSetAttrsStep is a constructor for SetAttrsStep
func NewSetAttrsStep(node *model.Node, attrs map[string]interface{}) *SetAttrsStep {
	return &SetAttrsStep{Node: node, Attrs: attrs}
}

// Apply is a method of the Step interface.
func (s *SetAttrsStep) Apply(doc *model.Document) error {
	if err := checkAttached(s.Node); err != nil {
		return err
	}
	doc.Differ.BufferAttributes(s.Node)
	s.previous = make(map[string]interface{}, len(s.Attrs))
	for k, v := range s.Attrs {
		s.previous[k] = s.Node.GetAttribute(k)
		s.Node.SetAttr(k, v)
	}
	return nil
}

// GetMap is a method of the Step interface.
func (s *SetAttrsStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *SetAttrsStep) Invert() Step {
	return NewSetAttrsStep(s.Node, s.previous)
}

var _ Step = &SetAttrsStep{}
