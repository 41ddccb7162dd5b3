package listedit

import (
	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/key"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/transform"
	"github.com/cozy/prosemirror-lists/view"
)

// onEnter outdents an empty list item instead of splitting it, and splits a
// non-empty one into a new item.
func (p *ListEditing) onEnter(info *view.EventInfo, data *view.EventData) {
	e := p.editor
	sel := e.Doc.Selection
	if !sel.IsSet() || !sel.IsCollapsed() {
		return
	}
	pos := sel.LastPosition()
	block := model.BlockOf(e.Schema, pos)
	if !IsListItem(block) {
		return
	}

	if block.IsEmpty() {
		if !p.execute(OutdentList) {
			return
		}
		info.PreventDefault()
		info.Stop()
		return
	}
	if data.IsSoft {
		return
	}

	err := e.Change(func(w *transform.Writer) error {
		created, err := w.Split(pos)
		if err != nil {
			return err
		}
		item, _ := list.InfoOf(block)
		item.GroupID = list.NewGroupID()
		return list.Set(w, created, item)
	})
	if err != nil {
		p.logger.Error("cannot split list item", zap.Error(err))
		return
	}
	info.PreventDefault()
	info.Stop()
}

// onDelete outdents the first item of a list when Backspace is pressed at
// its start, instead of merging it with the previous block.
func (p *ListEditing) onDelete(info *view.EventInfo, data *view.EventData) {
	if data.Direction != view.Backward {
		return
	}
	sel := p.editor.Doc.Selection
	if !sel.IsSet() || !sel.IsCollapsed() {
		return
	}
	first := sel.FirstPosition()
	if !first.IsAtStart() {
		return
	}
	block := first.Parent
	if !p.editor.Schema.IsBlock(block) || !IsListItem(block) {
		return
	}
	if IsListItem(block.PreviousSibling()) {
		return
	}
	if !p.execute(OutdentList) {
		return
	}
	info.PreventDefault()
	info.Stop()
}

// keystrokeExecuter runs a command from a keystroke when it is enabled.
func (p *ListEditing) keystrokeExecuter(name string) key.Handler {
	return func(ev key.Event, cancel func()) {
		if p.execute(name) {
			cancel()
		}
	}
}

// execute runs the command when it is enabled and reports whether it did.
func (p *ListEditing) execute(name string) bool {
	cmd := p.editor.Commands.Get(name)
	if cmd == nil || !cmd.IsEnabled() {
		return false
	}
	if err := cmd.Execute(); err != nil {
		p.logger.Error("command failed", zap.String("command", name), zap.Error(err))
	}
	return true
}
