package listedit

import (
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/view"
)

// IsListItem reports whether the node is a block carrying a list group id.
func IsListItem(node *model.Node) bool {
	_, ok := list.InfoOf(node)
	return ok
}

func groupID(node *model.Node) string {
	info, _ := list.InfoOf(node)
	return info.GroupID
}

// FindGroupStart returns the first block of the group of block: the farthest
// previous sibling reachable through blocks with the same group id. The scan
// stops at the first sibling which is not a list item or belongs to another
// group. It returns nil when block is not a list item.
func FindGroupStart(block *model.Node) *model.Node {
	id := groupID(block)
	if id == "" {
		return nil
	}
	start := block
	for prev := block.PreviousSibling(); prev != nil && groupID(prev) == id; prev = prev.PreviousSibling() {
		start = prev
	}
	return start
}

// FindGroupEnd returns the last block of the group of block.
func FindGroupEnd(block *model.Node) *model.Node {
	id := groupID(block)
	if id == "" {
		return nil
	}
	end := block
	for next := block.NextSibling(); next != nil && groupID(next) == id; next = next.NextSibling() {
		end = next
	}
	return end
}

// GroupBlocks returns the blocks of the group of block, in order.
func GroupBlocks(block *model.Node) []*model.Node {
	start, end := FindGroupStart(block), FindGroupEnd(block)
	if start == nil {
		return nil
	}
	return siblingsBetween(start, end)
}

// PreviousInGroup returns the previous sibling when it belongs to the same
// group.
func PreviousInGroup(block *model.Node) *model.Node {
	prev := block.PreviousSibling()
	if id := groupID(block); id != "" && groupID(prev) == id {
		return prev
	}
	return nil
}

// FindRun returns the first and last blocks of the maximal run of list items
// around block.
func FindRun(block *model.Node) (first, last *model.Node) {
	if !IsListItem(block) {
		return nil, nil
	}
	first, last = block, block
	for prev := first.PreviousSibling(); IsListItem(prev); prev = prev.PreviousSibling() {
		first = prev
	}
	for next := last.NextSibling(); IsListItem(next); next = next.NextSibling() {
		last = next
	}
	return first, last
}

func siblingsBetween(first, last *model.Node) []*model.Node {
	var nodes []*model.Node
	for node := first; node != nil; node = node.NextSibling() {
		nodes = append(nodes, node)
		if node == last {
			break
		}
	}
	return nodes
}

func isViewList(node *view.Node) bool {
	return node.Is("ul") || node.Is("ol")
}
