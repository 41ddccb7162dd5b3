package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/cozy/prosemirror-lists/model"
	. "github.com/cozy/prosemirror-lists/test/builder"
)

func TestPosition(t *testing.T) {
	doc := Doc(P("foo"), P("bar"))
	foo, bar := doc.Child(0), doc.Child(1)

	_, err := NewPosition(foo, 4)
	assert.True(t, errors.Is(err, ErrPositionOutOfRange))
	_, err = NewPosition(foo.Child(0), 0)
	assert.True(t, errors.Is(err, ErrPositionOutOfRange))
	pos, err := NewPosition(foo, 3)
	require.NoError(t, err)
	assert.True(t, pos.IsAtEnd())

	// between blocks
	between := PositionAfter(foo)
	assert.Same(t, doc, between.Parent)
	assert.Equal(t, 1, between.Offset)
	assert.Same(t, bar, between.NodeAfter())
	assert.Same(t, foo, between.NodeBefore())
	assert.True(t, between.IsEqual(PositionBefore(bar)))

	// inside a text node
	inside := PositionAt(foo, 1)
	assert.Nil(t, inside.NodeAfter())
	assert.Nil(t, inside.NodeBefore())
	assert.Same(t, foo.Child(0), inside.TextNode())
	assert.Equal(t, "[0 1]", inside.String())
	assert.Equal(t, "<unset>", Position{}.String())

	// ordering
	assert.Equal(t, -1, inside.Compare(between))
	assert.Equal(t, 1, PositionAt(bar, 0).Compare(between))
	assert.Equal(t, 0, between.Compare(PositionBefore(bar)))
	assert.Equal(t, -1, PositionBefore(foo).Compare(inside))
}

func TestRange(t *testing.T) {
	doc := Doc(P("a"), P("b"), P("c"))

	r := NewRange(PositionAt(doc, 1), PositionAt(doc, 3))
	assert.True(t, r.IsFlat())
	assert.False(t, r.IsCollapsed())
	assert.Equal(t, []*Node{doc.Child(1), doc.Child(2)}, r.Items())

	on := RangeOn(doc.Child(0))
	assert.Equal(t, []*Node{doc.Child(0)}, on.Items())
	assert.True(t, NewRange(PositionAt(doc, 2)).IsCollapsed())
	assert.Nil(t, NewRange(PositionAt(doc, 0), PositionAt(doc.Child(1), 0)).Items())
}

func TestSelectedBlocks(t *testing.T) {
	schema := NewSchema()
	require.NoError(t, schema.Register(ItemDefinition{Name: "paragraph", IsBlock: true, InheritAllFrom: BlockName}))
	doc := Doc(P("a"), P("b"), P("c"))
	a, b, c := doc.Child(0), doc.Child(1), doc.Child(2)

	sel := NewSelection(PositionAt(c, 1), PositionAt(a, 0))
	assert.False(t, sel.IsCollapsed())
	assert.Equal(t, []*Node{a, b, c}, sel.SelectedBlocks(schema))
	assert.True(t, sel.FirstPosition().IsEqual(PositionAt(a, 0)))

	caret := NewSelection(PositionAt(b, 1))
	assert.True(t, caret.IsCollapsed())
	assert.Equal(t, []*Node{b}, caret.SelectedBlocks(schema))
	assert.Same(t, b, BlockOf(schema, caret.Anchor))

	// between blocks
	around := NewSelection(PositionAt(doc, 1), PositionAt(doc, 2))
	assert.Equal(t, []*Node{b}, around.SelectedBlocks(schema))

	var unset *Selection
	assert.False(t, unset.IsSet())
	assert.Nil(t, unset.SelectedBlocks(schema))
}
