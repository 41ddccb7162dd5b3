// Package builder has helpers to write documents in tests.
package builder

import (
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	"github.com/cozy/prosemirror-lists/schema/list"
)

// Attrs is a shorthand for the attributes of a block.
type Attrs map[string]interface{}

func textblock(name string, attrs Attrs, text string) *model.Node {
	var children []*model.Node
	if text != "" {
		children = append(children, model.NewText(text))
	}
	return model.NewElement(name, attrs, children...)
}

// P builds a paragraph.
func P(text string) *model.Node {
	return textblock(basic.Paragraph, nil, text)
}

// H builds a heading.
func H(level int, text string) *model.Node {
	return textblock(basic.Heading, Attrs{basic.LevelKey: level}, text)
}

// Pre builds a code block.
func Pre(text string) *model.Node {
	return textblock(basic.CodeBlock, nil, text)
}

// Item turns block into a list item.
func Item(block *model.Node, kind list.Kind, indent int, group string) *model.Node {
	for k, v := range (list.Info{Indent: indent, Kind: kind, GroupID: group}).Attributes() {
		block.SetAttr(k, v)
	}
	return block
}

// Bullet builds a paragraph in a bulleted list.
func Bullet(indent int, group, text string) *model.Node {
	return Item(P(text), list.Bulleted, indent, group)
}

// Numbered builds a paragraph in a numbered list.
func Numbered(indent int, group, text string) *model.Node {
	return Item(P(text), list.Numbered, indent, group)
}

// Doc builds a detached root holding the given blocks.
func Doc(blocks ...*model.Node) *model.Node {
	return model.NewElement(model.RootName, nil, blocks...)
}
