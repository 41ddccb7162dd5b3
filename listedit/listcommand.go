package listedit

import (
	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/editor"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/transform"
)

// ListCommand toggles the list kind of the selected blocks: plain blocks
// become items of that kind, items of that kind become plain blocks again,
// and items of the other kind switch kind.
type ListCommand struct {
	editor *editor.Editor
	kind   list.Kind
}

// NewListCommand creates the command toggling lists of the given kind.
func NewListCommand(e *editor.Editor, kind list.Kind) *ListCommand {
	return &ListCommand{editor: e, kind: kind}
}

// Kind returns the kind of list the command toggles.
func (c *ListCommand) Kind() list.Kind {
	return c.kind
}

func (c *ListCommand) blocks() []*model.Node {
	var blocks []*model.Node
	for _, block := range c.editor.Doc.Selection.SelectedBlocks(c.editor.Schema) {
		if c.editor.Schema.CheckAttribute(block, list.GroupIDKey) {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// IsEnabled is true when the selection holds a block that can be a list
// item.
func (c *ListCommand) IsEnabled() bool {
	return len(c.blocks()) > 0
}

// Value is true when every selected block is an item of the command's kind.
func (c *ListCommand) Value() interface{} {
	blocks := c.blocks()
	if len(blocks) == 0 {
		return false
	}
	for _, block := range blocks {
		info, ok := list.InfoOf(block)
		if !ok || info.Kind != c.kind {
			return false
		}
	}
	return true
}

// Execute toggles the selected blocks. Each block turned into a list item
// gets its own group.
func (c *ListCommand) Execute(args ...interface{}) error {
	if !c.IsEnabled() {
		return nil
	}
	blocks := c.blocks()
	return c.editor.Change(func(w *transform.Writer) error {
		switched := map[*model.Node]bool{}
		for _, block := range blocks {
			info, ok := list.InfoOf(block)
			switch {
			case !ok:
				if err := list.Set(w, block, list.Info{Indent: 0, Kind: c.kind, GroupID: list.NewGroupID()}); err != nil {
					return err
				}
			case info.Kind == c.kind && !switched[block]:
				if err := list.Clear(w, block); err != nil {
					return err
				}
			case info.Kind != c.kind:
				// The blocks of a group share their kind.
				for _, member := range GroupBlocks(block) {
					i, _ := list.InfoOf(member)
					i.Kind = c.kind
					if err := list.Set(w, member, i); err != nil {
						return err
					}
					switched[member] = true
				}
			}
		}
		return nil
	})
}

var _ command.Command = (*ListCommand)(nil)
