package transform

import (
	"fmt"
	"unicode/utf8"

	"github.com/cozy/prosemirror-lists/model"
)

// Writer is the only way to modify the document. It is handed to the
// callbacks of Model.Change and records every applied step so that the
// whole batch can be reverted.
type Writer struct {
	doc       *model.Document
	steps     []Step
	selection model.Selection
}

func newWriter(doc *model.Document) *Writer {
	w := &Writer{doc: doc}
	if doc.Selection != nil {
		w.selection = *doc.Selection
	}
	return w
}

// Document returns the document being modified.
func (w *Writer) Document() *model.Document {
	return w.doc
}

// Steps returns the steps applied so far in the batch.
func (w *Writer) Steps() []Step {
	return w.steps
}

// Step applies a step and maps the selection through it.
func (w *Writer) Step(step Step) error {
	if err := step.Apply(w.doc); err != nil {
		return err
	}
	w.steps = append(w.steps, step)
	if sel := w.doc.Selection; sel.IsSet() {
		m := step.GetMap()
		sel.Anchor = m.Map(sel.Anchor)
		sel.Focus = m.Map(sel.Focus)
	}
	return nil
}

// SetAttribute sets an attribute on the node. The attribute must be allowed
// by the schema.
func (w *Writer) SetAttribute(key string, value interface{}, node *model.Node) error {
	return w.SetAttributes(map[string]interface{}{key: value}, node)
}

// SetAttributes sets several attributes on the node at once. A nil value
// removes the attribute.
func (w *Writer) SetAttributes(attrs map[string]interface{}, node *model.Node) error {
	for key, value := range attrs {
		if value != nil && !w.doc.Schema.CheckAttribute(node, key) {
			return fmt.Errorf("attribute %q is not allowed on %s", key, node.Name)
		}
	}
	return w.Step(NewSetAttrsStep(node, attrs))
}

// RemoveAttribute removes an attribute from the node.
func (w *Writer) RemoveAttribute(key string, node *model.Node) error {
	if !node.HasAttribute(key) {
		return nil
	}
	return w.Step(NewSetAttrsStep(node, map[string]interface{}{key: nil}))
}

// Insert inserts a detached node at the given position, which must point
// between two children.
func (w *Writer) Insert(node *model.Node, pos model.Position) error {
	index, inner := pos.Parent.OffsetToIndex(pos.Offset)
	if inner != 0 {
		return fmt.Errorf("%w: cannot insert inside a text node at %s", model.ErrPositionOutOfRange, pos)
	}
	return w.Step(NewReplaceStep(pos.Parent, index, 0, node))
}

// Append inserts a detached node at the end of parent.
func (w *Writer) Append(node, parent *model.Node) error {
	return w.Step(NewReplaceStep(parent, parent.ChildCount(), 0, node))
}

// Remove removes the node from the document.
func (w *Writer) Remove(node *model.Node) error {
	if err := checkAttached(node); err != nil {
		return err
	}
	return w.Step(NewReplaceStep(node.Parent(), node.Index(), 1))
}

// InsertText inserts text at the position, merging it with the text node it
// touches.
func (w *Writer) InsertText(text string, pos model.Position) error {
	if text == "" {
		return nil
	}
	parent := pos.Parent
	index, inner := parent.OffsetToIndex(pos.Offset)
	var step *ReplaceStep
	switch {
	case inner > 0:
		t := parent.Child(index)
		head, tail := splitText(t.Text, inner)
		step = NewReplaceStep(parent, index, 1, model.NewText(head+text+tail))
	case index > 0 && parent.Child(index-1).IsText():
		step = NewReplaceStep(parent, index-1, 1, model.NewText(parent.Child(index-1).Text+text))
	case index < parent.ChildCount() && parent.Child(index).IsText():
		step = NewReplaceStep(parent, index, 1, model.NewText(text+parent.Child(index).Text))
	default:
		step = NewReplaceStep(parent, index, 0, model.NewText(text))
	}
	collapsedHere := w.doc.Selection.IsCollapsed() && w.doc.Selection.Anchor.IsEqual(pos)
	if err := w.Step(step); err != nil {
		return err
	}
	if collapsedHere {
		w.SetSelection(model.PositionAt(parent, pos.Offset+utf8.RuneCountInString(text)))
	}
	return nil
}

// DeleteBackward removes the character just before the position, inside a
// text block.
func (w *Writer) DeleteBackward(pos model.Position) error {
	if pos.Offset == 0 {
		return nil
	}
	parent := pos.Parent
	index, inner := parent.OffsetToIndex(pos.Offset - 1)
	t := parent.Child(index)
	if t == nil {
		return fmt.Errorf("%w: nothing before %s", model.ErrPositionOutOfRange, pos)
	}
	if !t.IsText() {
		return w.Remove(t)
	}
	head, tail := splitText(t.Text, inner)
	_, rest := splitText(tail, 1)
	var replacement []*model.Node
	if head+rest != "" {
		replacement = append(replacement, model.NewText(head+rest))
	}
	if err := w.Step(NewReplaceStep(parent, index, 1, replacement...)); err != nil {
		return err
	}
	w.SetSelection(model.PositionAt(parent, pos.Offset-1))
	return nil
}

// Split splits the element containing the position in two. The new element
// copies the name and attributes of the split one, receives the content
// after the position, and is returned. The selection moves to its start.
func (w *Writer) Split(pos model.Position) (*model.Node, error) {
	block := pos.Parent
	if err := checkAttached(block); err != nil {
		return nil, err
	}
	if block.Parent() == nil {
		return nil, fmt.Errorf("cannot split the root")
	}
	index, inner := block.OffsetToIndex(pos.Offset)
	if inner > 0 {
		head, tail := splitText(block.Child(index).Text, inner)
		if err := w.Step(NewReplaceStep(block, index, 1, model.NewText(head), model.NewText(tail))); err != nil {
			return nil, err
		}
		index++
	}
	var tail []*model.Node
	for _, child := range block.Children()[index:] {
		tail = append(tail, child.Clone())
	}
	if count := block.ChildCount() - index; count > 0 {
		if err := w.Step(NewReplaceStep(block, index, count)); err != nil {
			return nil, err
		}
	}
	created := model.NewElement(block.Name, block.Attrs, tail...)
	if err := w.Insert(created, model.PositionAfter(block)); err != nil {
		return nil, err
	}
	w.SetSelection(model.PositionAt(created, 0))
	return created, nil
}

// Merge merges the node into its previous sibling: its content is appended
// to the sibling and the node is removed. The selection moves to the seam.
func (w *Writer) Merge(node *model.Node) error {
	prev := node.PreviousSibling()
	if prev == nil || prev.IsText() {
		return fmt.Errorf("%s has no element to merge into", node.Name)
	}
	seam := prev.MaxOffset()
	content := make([]*model.Node, 0, node.ChildCount())
	for _, child := range node.Children() {
		content = append(content, child.Clone())
	}
	if len(content) > 0 {
		last := prev.Child(prev.ChildCount() - 1)
		if last != nil && last.IsText() && content[0].IsText() {
			content[0] = model.NewText(last.Text + content[0].Text)
			if err := w.Step(NewReplaceStep(prev, prev.ChildCount()-1, 1, content...)); err != nil {
				return err
			}
		} else if err := w.Step(NewReplaceStep(prev, prev.ChildCount(), 0, content...)); err != nil {
			return err
		}
	}
	if err := w.Remove(node); err != nil {
		return err
	}
	w.SetSelection(model.PositionAt(prev, seam))
	return nil
}

// SetSelection moves the document selection.
func (w *Writer) SetSelection(anchor model.Position, focus ...model.Position) {
	w.doc.Selection = model.NewSelection(anchor, focus...)
}

// revert undoes every step of the batch, most recent first, and restores
// the selection.
func (w *Writer) revert() {
	for i := len(w.steps) - 1; i >= 0; i-- {
		if err := w.steps[i].Invert().Apply(w.doc); err != nil {
			panic(fmt.Errorf("cannot revert step %d: %w", i, err))
		}
	}
	w.steps = nil
	sel := w.selection
	w.doc.Selection = &sel
}

func splitText(text string, offset int) (string, string) {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	return string(runes[:offset]), string(runes[offset:])
}
