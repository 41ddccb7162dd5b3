package listedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	"github.com/cozy/prosemirror-lists/schema/list"
	. "github.com/cozy/prosemirror-lists/test/builder"
	"github.com/cozy/prosemirror-lists/view"
)

func names(nodes []*model.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TextContent()
	}
	return out
}

func render(nodes []*view.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

// textSlot renders the slot of a block as its text, so that built
// structures can be compared as strings.
func textSlot(block *model.Node) *view.Node {
	return view.NewText(block.TextContent())
}

func attributeChange(node *model.Node, key string, oldValue, newValue interface{}) model.DiffItem {
	return model.DiffItem{
		Type:              model.DiffAttribute,
		Name:              node.Name,
		Position:          model.PositionBefore(node),
		Node:              node,
		AttributeKey:      key,
		AttributeOldValue: oldValue,
		AttributeNewValue: newValue,
	}
}

func consumedNodes(patch *conversion.Patch) []string {
	seen := map[*model.Node]bool{}
	var out []string
	for _, c := range patch.Consumables {
		if !seen[c.Node] {
			seen[c.Node] = true
			out = append(out, c.Node.TextContent())
		}
	}
	return out
}

func TestGroupResolver(t *testing.T) {
	doc := Doc(
		P("x"),
		Bullet(0, "g1", "a"),
		Bullet(0, "g2", "b"),
		Bullet(0, "g2", "c"),
		Bullet(0, "g2", "d"),
		Bullet(1, "g3", "e"),
		P("y"),
	)
	x, a, b, c, d, e, y := doc.Child(0), doc.Child(1), doc.Child(2), doc.Child(3), doc.Child(4), doc.Child(5), doc.Child(6)

	assert.False(t, IsListItem(x))
	assert.True(t, IsListItem(a))
	assert.False(t, IsListItem(nil))

	// every member of a group resolves to the same start
	for _, member := range []*model.Node{b, c, d} {
		assert.Same(t, b, FindGroupStart(member))
		assert.Same(t, d, FindGroupEnd(member))
		assert.Equal(t, []string{"b", "c", "d"}, names(GroupBlocks(member)))
	}
	// the scan stops at another group
	assert.Same(t, a, FindGroupStart(a))
	assert.Same(t, a, FindGroupEnd(a))
	assert.Same(t, e, FindGroupStart(e))
	assert.Nil(t, FindGroupStart(x))
	assert.Nil(t, GroupBlocks(y))

	assert.Same(t, b, PreviousInGroup(c))
	assert.Nil(t, PreviousInGroup(b))
	assert.Nil(t, PreviousInGroup(x))

	first, last := FindRun(c)
	assert.Same(t, a, first)
	assert.Same(t, e, last)
	first, last = FindRun(y)
	assert.Nil(t, first)
	assert.Nil(t, last)
}

func TestTriggerAttributeChange(t *testing.T) {
	conv := &converters{logger: zaptest.NewLogger(t)}

	// items around are absorbed
	doc := Doc(P("x"), Bullet(0, "gA", "A"), Bullet(0, "gB", "B"), Bullet(1, "gB", "C"), Bullet(0, "gD", "D"), P("y"))
	c := doc.Child(3)
	patch := conv.triggerBy(attributeChange(c, list.IndentKey, 0, 1))
	require.NotNil(t, patch)
	assert.False(t, patch.Remove)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(patch.Range.Items()))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, consumedNodes(patch))
	assert.Len(t, patch.Consumables, 12)

	// plain neighbours bound the range
	doc = Doc(P("A"), Bullet(0, "gB", "B"), Bullet(0, "gB", "C"), P("D"))
	c = doc.Child(2)
	patch = conv.triggerBy(attributeChange(c, list.KindKey, "bulleted", "numbered"))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"B", "C"}, names(patch.Range.Items()))

	// other attributes are ignored
	assert.Nil(t, conv.triggerBy(attributeChange(c, "level", nil, 2)))
}

func TestTriggerAttributeRemoved(t *testing.T) {
	conv := &converters{logger: zaptest.NewLogger(t)}

	// the boundary shrinks: the previous item and the block are rendered
	// again
	doc := Doc(Bullet(0, "gA", "P0"), P("P1"), P("P2"))
	p1 := doc.Child(1)
	patch := conv.triggerBy(attributeChange(p1, list.GroupIDKey, "gA", nil))
	require.NotNil(t, patch)
	assert.False(t, patch.Remove)
	assert.Equal(t, []string{"P0", "P1"}, names(patch.Range.Items()))
	assert.Equal(t,
		[]string{`ul(li("P0"))`, `"P1"`},
		render(conv.buildView(patch.Range.Items(), textSlot)))
	// the keys still on P0, and the removed one on P1
	assert.Len(t, patch.Consumables, 4)
	assert.Contains(t, patch.Consumables, conversion.Consumable{Node: p1, Key: conversion.AttributeKey(list.GroupIDKey)})

	// the first item of a list became plain
	doc = Doc(P("x"), P("A"), Bullet(0, "gB", "B"), Bullet(0, "gC", "C"))
	patch = conv.triggerBy(attributeChange(doc.Child(1), list.GroupIDKey, "gA", nil))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"A", "B", "C"}, names(patch.Range.Items()))

	// an isolated item became plain: its wrapper is removed
	doc = Doc(P("x"), P("A"), P("y"))
	a := doc.Child(1)
	patch = conv.triggerBy(attributeChange(a, list.GroupIDKey, "gA", nil))
	require.NotNil(t, patch)
	assert.True(t, patch.Remove)
	assert.True(t, patch.Range.IsCollapsed())
	assert.Equal(t, model.PositionBefore(a), patch.Range.Start)
	assert.Equal(t, []conversion.Consumable{{Node: a, Key: conversion.AttributeKey(list.GroupIDKey)}}, patch.Consumables)
}

func TestTriggerConsumesCarriedKeysOnly(t *testing.T) {
	conv := &converters{logger: zaptest.NewLogger(t)}
	partial := model.NewElement(basic.Paragraph, map[string]interface{}{list.GroupIDKey: "g"}, model.NewText("a"))
	Doc(partial, Bullet(0, "h", "b"))

	patch := conv.triggerBy(model.DiffItem{Type: model.DiffInsert, Name: partial.Name, Position: model.PositionBefore(partial), Node: partial, Attributes: partial.Attrs})
	require.NotNil(t, patch)
	assert.Equal(t, []string{"a", "b"}, names(patch.Range.Items()))
	var keys []string
	for _, c := range patch.Consumables {
		if c.Node == partial {
			keys = append(keys, c.Key)
		}
	}
	assert.Equal(t, []string{conversion.AttributeKey(list.GroupIDKey)}, keys)
	assert.Len(t, patch.Consumables, 4)
}

func TestTriggerInsertAndRemove(t *testing.T) {
	conv := &converters{logger: zaptest.NewLogger(t)}
	doc := Doc(Bullet(0, "gA", "A"), P("x"), Bullet(0, "gB", "B"), P("y"))
	a, x, b, y := doc.Child(0), doc.Child(1), doc.Child(2), doc.Child(3)

	insert := func(node *model.Node) model.DiffItem {
		return model.DiffItem{Type: model.DiffInsert, Name: node.Name, Position: model.PositionBefore(node), Node: node, Attributes: node.Attrs}
	}

	patch := conv.triggerBy(insert(b))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"B"}, names(patch.Range.Items()))

	// a plain block between two items splits the list
	patch = conv.triggerBy(insert(x))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"A", "x", "B"}, names(patch.Range.Items()))
	assert.Nil(t, conv.triggerBy(insert(y)))

	// text is not a block
	assert.Nil(t, conv.triggerBy(model.DiffItem{Type: model.DiffInsert, Name: model.TextName, Position: model.PositionAt(a, 0), Node: a.Child(0)}))

	remove := func(pos model.Position, attrs map[string]interface{}) model.DiffItem {
		return model.DiffItem{Type: model.DiffRemove, Name: "paragraph", Position: pos, Node: P("gone"), Attributes: attrs}
	}
	item := (list.Info{Indent: 0, Kind: list.Bulleted, GroupID: "gZ"}).Attributes()

	// a removed item re-renders its neighbours
	patch = conv.triggerBy(remove(model.PositionBefore(x), item))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"A"}, names(patch.Range.Items()))
	patch = conv.triggerBy(remove(model.PositionBefore(b), item))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"B"}, names(patch.Range.Items()))

	// the last item of a list
	patch = conv.triggerBy(remove(model.PositionAfter(y), item))
	require.NotNil(t, patch)
	assert.True(t, patch.Remove)

	// a plain block removed between two items joins them
	doc = Doc(Bullet(0, "gA", "A"), Bullet(0, "gB", "B"))
	patch = conv.triggerBy(remove(model.PositionAt(doc, 1), nil))
	require.NotNil(t, patch)
	assert.Equal(t, []string{"A", "B"}, names(patch.Range.Items()))
	assert.Nil(t, conv.triggerBy(remove(model.PositionAt(doc, 2), nil)))
}

func TestBuildView(t *testing.T) {
	conv := &converters{logger: zaptest.NewLogger(t)}
	build := func(doc *model.Node, expected ...string) {
		t.Helper()
		got := render(conv.buildView(doc.Children(), textSlot))
		assert.Equal(t, expected, got)
		// building again gives the same structure
		assert.Equal(t, got, render(conv.buildView(doc.Children(), textSlot)))
	}

	build(Doc(Bullet(0, "a", "a"), Bullet(0, "b", "b")),
		`ul(li("a"), li("b"))`)

	// blocks of a group share their item
	build(Doc(Numbered(0, "a", "a"), Numbered(0, "a", "a2"), Numbered(0, "b", "b")),
		`ol(li("a", "a2"), li("b"))`)

	// nesting by indent
	build(Doc(Bullet(0, "a", "a"), Bullet(1, "b", "b"), Bullet(2, "c", "c"), Bullet(1, "d", "d"), Bullet(0, "e", "e")),
		`ul(li("a", ul(li("b", ul(li("c"))), li("d"))), li("e"))`)

	// a change of kind starts a sibling list
	build(Doc(Bullet(0, "a", "a"), Numbered(0, "b", "b"), Bullet(1, "c", "c"), Numbered(1, "d", "d")),
		`ul(li("a"))`, `ol(li("b", ul(li("c")), ol(li("d"))))`)

	// plain blocks split the lists
	build(Doc(Bullet(0, "a", "a"), P("x"), Bullet(1, "b", "b")),
		`ul(li("a"))`, `"x"`, `ul(li("b"))`)
}
