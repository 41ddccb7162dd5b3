package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/cozy/prosemirror-lists/model"
	. "github.com/cozy/prosemirror-lists/test/builder"
)

func describeChanges(changes []DiffItem) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.String()
	}
	return out
}

func TestDifferChanges(t *testing.T) {
	root := Doc(P("a"), P("b"), P("c"))
	d := NewDiffer()
	assert.True(t, d.IsEmpty())

	// no change
	d.BufferChildren(root)
	assert.Empty(t, d.Changes())

	// remove and insert in one parent
	b := root.Child(1)
	root.RemoveChildren(1, 1)
	root.InsertChildren(2, P("d"))
	assert.Equal(t, []string{
		"remove [1] paragraph",
		"insert [2] paragraph",
	}, describeChanges(d.Changes()))
	changes := d.Changes()
	assert.Same(t, b, changes[0].Node)

	// attribute changes are reported against the final position
	d.Reset()
	c := root.Child(1)
	d.BufferAttributes(c)
	c.SetAttr("listIndent", 1)
	d.BufferAttributes(c)
	c.SetAttr("listIndent", 2)
	changes = d.Changes()
	if assert.Len(t, changes, 1) {
		assert.Equal(t, DiffAttribute, changes[0].Type)
		assert.Equal(t, "listIndent", changes[0].AttributeKey)
		assert.Nil(t, changes[0].AttributeOldValue)
		assert.Equal(t, 2, changes[0].AttributeNewValue)
		assert.Equal(t, RangeOn(c), changes[0].Range())
	}

	// setting back the old value is not a change
	c.SetAttr("listIndent", nil)
	assert.Empty(t, d.Changes())
}

func TestDifferIgnoresInsertedContent(t *testing.T) {
	root := Doc(P("a"))
	d := NewDiffer()

	d.BufferChildren(root)
	block := P("")
	root.InsertChildren(1, block)
	d.BufferChildren(block)
	block.InsertChildren(0, NewText("x"))

	changes := d.Changes()
	if assert.Len(t, changes, 1) {
		assert.Equal(t, DiffInsert, changes[0].Type)
		assert.Same(t, block, changes[0].Node)
	}
}

func TestDifferRemovedAttributes(t *testing.T) {
	block := Bullet(0, "g", "a")
	root := Doc(block)
	d := NewDiffer()

	d.BufferAttributes(block)
	block.SetAttr("listGroupId", nil)
	d.BufferChildren(root)
	root.RemoveChildren(0, 1)

	changes := d.Changes()
	if assert.Len(t, changes, 1) {
		assert.Equal(t, DiffRemove, changes[0].Type)
		assert.Equal(t, "g", changes[0].Attributes["listGroupId"])
		assert.Equal(t, "remove [0] paragraph", changes[0].String())
	}
}
