package basic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cozy/prosemirror-lists/model"
	. "github.com/cozy/prosemirror-lists/schema/basic"
)

func TestHeadingLevel(t *testing.T) {
	level := func(v interface{}) int {
		return HeadingLevel(model.NewElement(Heading, map[string]interface{}{LevelKey: v}))
	}
	assert.Equal(t, 2, level(2))
	assert.Equal(t, 3, level(3.0))
	assert.Equal(t, 1, level(0))
	assert.Equal(t, 6, level(9))
	assert.Equal(t, 1, level("two"))
}

func TestSchema(t *testing.T) {
	schema := NewSchema()
	assert.True(t, schema.IsBlock(model.NewElement(Paragraph, nil)))
	assert.True(t, schema.IsBlock(model.NewElement(CodeBlock, nil)))
	assert.False(t, schema.IsBlock(model.NewText("foo")))

	heading := model.NewElement(Heading, nil)
	assert.True(t, schema.CheckAttribute(heading, LevelKey))
	assert.False(t, schema.CheckAttribute(model.NewElement(Paragraph, nil), LevelKey))

	assert.Error(t, AddToSchema(schema))
}
