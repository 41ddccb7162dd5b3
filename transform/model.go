package transform

import (
	"errors"
	"fmt"

	"github.com/cozy/prosemirror-lists/model"
)

// ErrPostFixerLoop is returned when post-fixers keep changing the document.
var ErrPostFixerLoop = errors.New("post-fixers did not settle")

const maxPostFixerRounds = 32

// PostFixer is called at the end of every batch, before the changes are
// emitted. It may use the writer to fix the document, and must report
// whether it did so; post-fixers are then called again until none of them
// changes anything.
type PostFixer func(w *Writer) (bool, error)

// ChangeListener receives the changes of every committed batch.
type ChangeListener func(changes []model.DiffItem)

// Model runs changes against a document in transactional batches.
type Model struct {
	Doc *model.Document

	writer     *Writer
	postFixers []PostFixer
	listeners  []ChangeListener
}

// NewModel creates a model for the document.
func NewModel(doc *model.Document) *Model {
	return &Model{Doc: doc}
}

// RegisterPostFixer adds a post-fixer.
func (m *Model) RegisterPostFixer(fixer PostFixer) {
	m.postFixers = append(m.postFixers, fixer)
}

// OnChange adds a listener called after each committed batch that changed
// the document.
func (m *Model) OnChange(listener ChangeListener) {
	m.listeners = append(m.listeners, listener)
}

// IsChanging is true while a batch is open.
func (m *Model) IsChanging() bool {
	return m.writer != nil
}

// Change opens a batch and calls fn with its writer. Calls nested inside an
// open batch join it. When fn (or a post-fixer) returns an error, every step
// of the batch is reverted and nothing is emitted.
func (m *Model) Change(fn func(w *Writer) error) error {
	if m.writer != nil {
		return fn(m.writer)
	}
	w := newWriter(m.Doc)
	m.writer = w
	defer func() { m.writer = nil }()

	if err := fn(w); err != nil {
		m.rollback(w)
		return err
	}
	if err := m.runPostFixers(w); err != nil {
		m.rollback(w)
		return err
	}

	changes := m.Doc.Differ.Changes()
	m.Doc.Differ.Reset()
	m.fixSelection()
	if len(changes) == 0 {
		return nil
	}
	for _, listener := range m.listeners {
		listener(changes)
	}
	return nil
}

func (m *Model) runPostFixers(w *Writer) error {
	for round := 0; round < maxPostFixerRounds; round++ {
		changed := false
		for _, fixer := range m.postFixers {
			c, err := fixer(w)
			if err != nil {
				return fmt.Errorf("post-fixer: %w", err)
			}
			changed = changed || c
		}
		if !changed {
			return nil
		}
	}
	return ErrPostFixerLoop
}

func (m *Model) rollback(w *Writer) {
	w.revert()
	m.Doc.Differ.Reset()
}

// fixSelection moves a selection left in a detached node to the start of
// the document.
func (m *Model) fixSelection() {
	sel := m.Doc.Selection
	if sel.IsSet() && sel.Anchor.Parent.IsAttached() && sel.Focus.Parent.IsAttached() {
		return
	}
	root := m.Doc.Root
	if first := root.Child(0); first != nil && first.IsElement() {
		m.Doc.Selection = model.NewSelection(model.PositionAt(first, 0))
		return
	}
	m.Doc.Selection = model.NewSelection(model.PositionAt(root, 0))
}
