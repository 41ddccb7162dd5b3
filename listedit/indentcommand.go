package listedit

import (
	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/editor"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/transform"
)

// Direction of an indent command.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// IndentCommand changes the indent of the selected list items, with their
// nested items. Outdenting an item at indent 0 turns it back into a plain
// block.
type IndentCommand struct {
	editor    *editor.Editor
	direction Direction
}

// NewIndentCommand creates the indentList (Forward) or outdentList
// (Backward) command.
func NewIndentCommand(e *editor.Editor, direction Direction) *IndentCommand {
	return &IndentCommand{editor: e, direction: direction}
}

// items returns the selected list items, extended to whole groups and to
// the items nested in the last one.
func (c *IndentCommand) items() []*model.Node {
	var items []*model.Node
	seen := map[*model.Node]bool{}
	for _, block := range c.editor.Doc.Selection.SelectedBlocks(c.editor.Schema) {
		for _, member := range GroupBlocks(block) {
			if !seen[member] {
				seen[member] = true
				items = append(items, member)
			}
		}
	}
	if len(items) == 0 {
		return nil
	}
	last, _ := list.InfoOf(items[len(items)-1])
	for next := items[len(items)-1].NextSibling(); IsListItem(next) && !seen[next]; next = next.NextSibling() {
		info, _ := list.InfoOf(next)
		if info.Indent <= last.Indent {
			break
		}
		seen[next] = true
		items = append(items, next)
	}
	return items
}

// IsEnabled is true when there are list items to outdent, or, for the
// forward direction, when the first of them can be nested into the previous
// item without exceeding the maximum indent.
func (c *IndentCommand) IsEnabled() bool {
	items := c.items()
	if len(items) == 0 {
		return false
	}
	if c.direction == Backward {
		return true
	}
	first, _ := list.InfoOf(items[0])
	if first.Indent+1 > c.editor.Config.List.MaxIndent {
		return false
	}
	prev, ok := list.InfoOf(items[0].PreviousSibling())
	return ok && prev.Indent >= first.Indent
}

// Value is always nil.
func (c *IndentCommand) Value() interface{} {
	return nil
}

// Execute indents or outdents the items.
func (c *IndentCommand) Execute(args ...interface{}) error {
	if !c.IsEnabled() {
		return nil
	}
	items := c.items()
	return c.editor.Change(func(w *transform.Writer) error {
		for _, item := range items {
			info, _ := list.InfoOf(item)
			if c.direction == Forward {
				if info.Indent+1 > c.editor.Config.List.MaxIndent {
					continue
				}
				info.Indent++
				if err := list.Set(w, item, info); err != nil {
					return err
				}
				continue
			}
			if info.Indent == 0 {
				if err := list.Clear(w, item); err != nil {
					return err
				}
				continue
			}
			info.Indent--
			if err := list.Set(w, item, info); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ command.Command = (*IndentCommand)(nil)
