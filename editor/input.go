package editor

import (
	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/key"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/transform"
	"github.com/cozy/prosemirror-lists/view"
)

// Press handles a key press. Keystroke handlers go first; Enter, Backspace
// and Delete are then fired as view events, and their default behaviour runs
// unless a listener prevented it.
func (e *Editor) Press(ev key.Event) error {
	if e.Keystrokes.Press(ev) {
		e.Logger.Debug("keystroke handled", zap.Stringer("key", ev))
		return nil
	}
	switch ev.Key {
	case key.KeyEnter:
		soft := ev.Modifiers.Has(key.ModShift)
		info := e.View.Fire(view.EventEnter, &view.EventData{Target: e.selectionTarget(), IsSoft: soft})
		if info.DefaultPrevented() {
			return nil
		}
		return e.enter(soft)
	case key.KeyBackspace, key.KeyDelete:
		dir := view.Backward
		if ev.Key == key.KeyDelete {
			dir = view.Forward
		}
		info := e.View.Fire(view.EventDelete, &view.EventData{Target: e.selectionTarget(), Direction: dir})
		if info.DefaultPrevented() {
			return nil
		}
		return e.delete(dir)
	}
	if ev.IsChar() {
		return e.Type(string(ev.Rune))
	}
	return nil
}

// Type inserts text at the selection.
func (e *Editor) Type(text string) error {
	sel := e.Doc.Selection
	if !sel.IsSet() || model.BlockOf(e.Schema, sel.LastPosition()) == nil {
		return nil
	}
	return e.Change(func(w *transform.Writer) error {
		return w.InsertText(text, sel.LastPosition())
	})
}

// selectionTarget returns the view element of the block holding the
// selection, used to match the context of view event listeners.
func (e *Editor) selectionTarget() *view.Node {
	sel := e.Doc.Selection
	if !sel.IsSet() {
		return nil
	}
	return e.Mapper.ToViewElement(model.BlockOf(e.Schema, sel.LastPosition()))
}

// enter splits the block at the caret, or inserts a line break for a soft
// enter.
func (e *Editor) enter(soft bool) error {
	sel := e.Doc.Selection
	if !sel.IsSet() {
		return nil
	}
	pos := sel.LastPosition()
	if model.BlockOf(e.Schema, pos) == nil {
		return nil
	}
	return e.Change(func(w *transform.Writer) error {
		if soft {
			return w.InsertText("\n", pos)
		}
		_, err := w.Split(pos)
		return err
	})
}

// delete removes the character before (or after) the caret, merging blocks
// at their boundaries.
func (e *Editor) delete(dir view.Direction) error {
	sel := e.Doc.Selection
	if !sel.IsSet() || !sel.IsCollapsed() {
		return nil
	}
	pos := sel.Anchor
	block := model.BlockOf(e.Schema, pos)
	if block == nil {
		return nil
	}
	return e.Change(func(w *transform.Writer) error {
		if dir == view.Backward {
			if pos.Offset > 0 {
				return w.DeleteBackward(pos)
			}
			if prev := block.PreviousSibling(); prev != nil && e.Schema.IsBlock(prev) {
				return w.Merge(block)
			}
			return nil
		}
		if pos.Offset < block.MaxOffset() {
			if err := w.DeleteBackward(model.PositionAt(block, pos.Offset+1)); err != nil {
				return err
			}
			w.SetSelection(pos)
			return nil
		}
		if next := block.NextSibling(); next != nil && e.Schema.IsBlock(next) {
			return w.Merge(next)
		}
		return nil
	})
}
