// Package transform implements document transforms, which are used by the
// editor to treat changes as first-class values that can be applied,
// reverted, and reasoned about. Every mutation of the model tree goes
// through a Step applied by a Writer inside a Model.Change batch.
package transform

import (
	"errors"

	"github.com/cozy/prosemirror-lists/model"
)

// ErrDetached is returned when a step targets a node that is not part of
// the document anymore.
var ErrDetached = errors.New("node is not attached to the document")

// Step objects represent an atomic change. It generally applies only to the
// document it was created for, since the nodes referenced by it only make
// sense in that document.
type Step interface {
	// Apply applies this step to the given document. It buffers the parts
	// of the tree it is about to modify in the document's Differ first.
	Apply(doc *model.Document) error

	// GetMap gets the step map that represents the changes made by this
	// step, and which can be used to transform positions in the old
	// document into positions in the new one. Only valid after Apply.
	GetMap() *StepMap

	// Invert creates an inverted version of this step. Only valid after
	// Apply.
	Invert() Step
}

func checkAttached(node *model.Node) error {
	if node == nil || !node.IsAttached() {
		return ErrDetached
	}
	return nil
}
