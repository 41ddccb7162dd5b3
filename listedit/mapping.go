package listedit

import (
	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/view"
)

// viewListItemLength is the model length of li, ul and ol elements. Nested
// lists are transparent: their items count as if they were direct children,
// so that an offset is never counted twice.
func viewListItemLength(m *conversion.Mapper, el *view.Node) int {
	length := 0
	for _, child := range el.Children() {
		if isViewList(child) {
			for _, item := range child.Children() {
				length += viewListItemLength(m, item)
			}
			continue
		}
		length += m.GetModelLength(child)
	}
	return length
}

// modelToViewPosition maps a position just before a list item inside the li
// of its group. The position is left unset when the group is not rendered
// yet, so that the default mapping applies.
func modelToViewPosition(data *conversion.ModelToViewData) {
	item := data.ModelPosition.NodeAfter()
	if !IsListItem(item) {
		return
	}
	first := FindGroupStart(item)
	viewElement := data.Mapper.ToViewElement(first)
	if viewElement == nil {
		return
	}
	li := viewElement
	if !li.Is("li") {
		li = viewElement.FindAncestor("li")
	}
	if li == nil {
		return
	}
	data.ViewPosition = data.Mapper.FindPositionIn(li, data.ModelPosition.Offset-first.StartOffset())
}

func notPhantom(data *conversion.ModelToViewData) bool {
	return !data.IsPhantom && !data.ViewPosition.IsSet()
}
