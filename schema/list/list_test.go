package list_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	. "github.com/cozy/prosemirror-lists/schema/list"
)

type recorder struct {
	writes []map[string]interface{}
}

func (r *recorder) SetAttributes(attrs map[string]interface{}, node *model.Node) error {
	r.writes = append(r.writes, attrs)
	for k, v := range attrs {
		node.SetAttr(k, v)
	}
	return nil
}

func TestInfoOf(t *testing.T) {
	p := model.NewElement(basic.Paragraph, map[string]interface{}{
		IndentKey:  2,
		KindKey:    "numbered",
		GroupIDKey: "g",
	})
	info, ok := InfoOf(p)
	require.True(t, ok)
	assert.Equal(t, Info{Indent: 2, Kind: Numbered, GroupID: "g"}, info)

	// the group id alone makes an item
	info, ok = InfoOf(model.NewElement(basic.Paragraph, map[string]interface{}{GroupIDKey: "g", KindKey: "checked"}))
	require.True(t, ok)
	assert.Equal(t, Info{Indent: 0, Kind: Bulleted, GroupID: "g"}, info)

	// decoded from JSON
	info, ok = InfoOf(model.NewElement(basic.Paragraph, map[string]interface{}{GroupIDKey: "g", IndentKey: 3.0}))
	require.True(t, ok)
	assert.Equal(t, 3, info.Indent)

	_, ok = InfoOf(model.NewElement(basic.Paragraph, map[string]interface{}{IndentKey: 1, KindKey: "bulleted"}))
	assert.False(t, ok)
	_, ok = InfoOf(model.NewElement(basic.Paragraph, map[string]interface{}{GroupIDKey: ""}))
	assert.False(t, ok)
	_, ok = InfoOf(model.NewText("foo"))
	assert.False(t, ok)
	_, ok = InfoOf(nil)
	assert.False(t, ok)
}

func TestSetAndClear(t *testing.T) {
	w := &recorder{}
	p := model.NewElement(basic.Paragraph, nil)

	assert.Error(t, Set(w, p, Info{Kind: Bulleted}))
	assert.Error(t, Set(w, p, Info{Kind: "checked", GroupID: "g"}))
	assert.Error(t, Set(w, p, Info{Indent: -1, Kind: Bulleted, GroupID: "g"}))
	assert.Empty(t, w.writes)

	require.NoError(t, Set(w, p, Info{Indent: 1, Kind: Numbered, GroupID: "g"}))
	assert.Equal(t, 1, p.GetAttribute(IndentKey))
	assert.Equal(t, "numbered", p.GetAttribute(KindKey))
	assert.Equal(t, "g", p.GetAttribute(GroupIDKey))
	assert.Len(t, w.writes, 1)

	require.NoError(t, Clear(w, p))
	assert.Empty(t, p.AttributeKeys())
	assert.Len(t, w.writes, 2)

	// nothing to clear
	require.NoError(t, Clear(w, p))
	assert.Len(t, w.writes, 2)
}

func TestSchema(t *testing.T) {
	schema := basic.NewSchema()
	p := model.NewElement(basic.Paragraph, nil)
	assert.False(t, schema.CheckAttribute(p, GroupIDKey))

	require.NoError(t, AddListAttributes(schema))
	for _, name := range []string{basic.Paragraph, basic.Heading, basic.CodeBlock} {
		for _, key := range Keys {
			assert.True(t, schema.CheckAttribute(model.NewElement(name, nil), key), "%s on %s", key, name)
		}
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "ul", Bulleted.ViewName())
	assert.Equal(t, "ol", Numbered.ViewName())
	assert.False(t, Kind("").IsValid())

	for _, key := range Keys {
		assert.True(t, IsListAttribute(key))
	}
	assert.False(t, IsListAttribute(basic.LevelKey))

	ids := map[string]bool{}
	for i := 0; i < 100; i++ {
		ids[NewGroupID()] = true
	}
	assert.Len(t, ids, 100)
}
