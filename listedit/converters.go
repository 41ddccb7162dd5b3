package listedit

import (
	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/view"
)

type converters struct {
	logger *zap.Logger
}

// triggerBy returns the range of list items to render again after a change,
// or a collapsed remove patch when a list disappeared altogether. The range
// always spans the whole run of list items around the change, since the
// rendering of an item depends on its neighbours.
func (c *converters) triggerBy(item model.DiffItem) *conversion.Patch {
	if item.Name == model.TextName {
		return nil
	}
	var start, end *model.Node
	var consumables []conversion.Consumable
	addConsumable := func(node *model.Node) {
		for _, key := range list.Keys {
			if node.HasAttribute(key) {
				consumables = append(consumables, conversion.Consumable{Node: node, Key: conversion.AttributeKey(key)})
			}
		}
	}

	switch item.Type {
	case model.DiffAttribute:
		if !list.IsListAttribute(item.AttributeKey) {
			return nil
		}
		before, after := item.Position.NodeBefore(), item.Position.NodeAfter()
		c.logger.Debug("trigger - attribute change at", zap.Ints("path", item.Position.Path()), zap.String("key", item.AttributeKey))
		if item.AttributeNewValue == nil {
			// The node no longer carries the key.
			consumables = append(consumables, conversion.Consumable{Node: item.Node, Key: conversion.AttributeKey(item.AttributeKey)})
		}
		switch {
		case item.AttributeNewValue != nil:
			start = after
		case IsListItem(before):
			// The boundary of the list shrank.
			start, end = before, after
		case IsListItem(after.NextSibling()):
			start, end = after, after.NextSibling()
		default:
			addConsumable(after)
			return &conversion.Patch{Range: model.NewRange(item.Position), Remove: true, Consumables: consumables}
		}

	case model.DiffInsert:
		c.logger.Debug("trigger - insert at", zap.Ints("path", item.Position.Path()))
		start = item.Node
		if !IsListItem(start) {
			// A plain block inserted inside a run splits it in two.
			prev, next := start.PreviousSibling(), start.NextSibling()
			if !IsListItem(prev) || !IsListItem(next) {
				return nil
			}
			start, end = prev, next
		}

	case model.DiffRemove:
		before, after := item.Position.NodeBefore(), item.Position.NodeAfter()
		if _, ok := item.Attributes[list.GroupIDKey]; !ok {
			// A plain block removed between two runs joins them.
			if !IsListItem(before) || !IsListItem(after) {
				return nil
			}
			c.logger.Debug("trigger - remove at", zap.Ints("path", item.Position.Path()))
			start, end = before, after
			break
		}
		c.logger.Debug("trigger - remove at", zap.Ints("path", item.Position.Path()))
		switch {
		case IsListItem(before):
			start = before
		case IsListItem(after):
			start = after
		default:
			return &conversion.Patch{Range: model.NewRange(item.Position), Remove: true}
		}
	}

	if start == nil {
		return nil
	}
	addConsumable(start)
	if end != nil {
		addConsumable(end)
	} else {
		end = start
	}
	for node := start.PreviousSibling(); IsListItem(node); node = node.PreviousSibling() {
		start = node
		addConsumable(node)
	}
	for node := end.NextSibling(); IsListItem(node); node = node.NextSibling() {
		end = node
		addConsumable(node)
	}
	return &conversion.Patch{
		Range:       model.NewRange(model.PositionBefore(start), model.PositionAfter(end)),
		Consumables: consumables,
	}
}

type listLevel struct {
	indent int
	list   *view.Node
	item   *view.Node
}

// buildView renders a range of blocks as lists. Consecutive list items go in
// one container, and a block which is not a list item closes it and is put
// as is between the containers. Blocks of the same group share one li. An
// item deeper than the previous one opens a nested container in the li of
// the previous one, and a change of kind at the same depth starts a sibling
// container.
func (c *converters) buildView(blocks []*model.Node, slotFor conversion.SlotFor) []*view.Node {
	c.logger.Debug("creating view", zap.Int("blocks", len(blocks)))

	var out []*view.Node
	var stack []*listLevel
	var lastGroup string
	var lastItem *view.Node

	for _, block := range blocks {
		info, ok := list.InfoOf(block)
		if !ok {
			stack, lastGroup, lastItem = nil, "", nil
			out = append(out, slotFor(block))
			continue
		}
		if lastItem != nil && info.GroupID == lastGroup {
			lastItem.AppendChildren(slotFor(block))
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].indent > info.Indent {
			stack = stack[:len(stack)-1]
		}
		name := info.Kind.ViewName()
		switch {
		case len(stack) == 0:
			container := view.NewContainer(name, nil)
			out = append(out, container)
			stack = append(stack, &listLevel{indent: info.Indent, list: container})
		case stack[len(stack)-1].indent < info.Indent:
			container := view.NewContainer(name, nil)
			stack[len(stack)-1].item.AppendChildren(container)
			stack = append(stack, &listLevel{indent: info.Indent, list: container})
		case stack[len(stack)-1].list.Name != name:
			container := view.NewContainer(name, nil)
			if len(stack) == 1 {
				out = append(out, container)
			} else {
				stack[len(stack)-2].item.AppendChildren(container)
			}
			stack[len(stack)-1].list = container
		}

		top := stack[len(stack)-1]
		li := view.NewContainer("li", nil, slotFor(block))
		top.list.AppendChildren(li)
		top.item = li
		lastGroup, lastItem = info.GroupID, li
	}
	return out
}
