package listedit

import (
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/transform"
)

// fixIndents keeps the indents of every run of list items consistent after
// a change: the first item of a run has indent 0, an item is at most one
// level deeper than the previous one, and the blocks of a group take the
// indent and kind of its first block.
func fixIndents(w *transform.Writer) (bool, error) {
	changed := false
	var prev *list.Info
	var start list.Info
	for _, block := range w.Document().Root.Children() {
		info, ok := list.InfoOf(block)
		if !ok {
			prev = nil
			continue
		}
		want := info
		if prev != nil && prev.GroupID == info.GroupID {
			want.Indent, want.Kind = start.Indent, start.Kind
		} else {
			limit := 0
			if prev != nil {
				limit = prev.Indent + 1
			}
			if want.Indent > limit {
				want.Indent = limit
			}
			start = want
		}
		if want != info {
			if err := list.Set(w, block, want); err != nil {
				return false, err
			}
			changed = true
		}
		p := want
		prev = &p
	}
	return changed, nil
}
