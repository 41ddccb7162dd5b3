// Package basic defines the generic blocks of a document, paragraphs,
// headings and code blocks, and how they are rendered.
package basic

import (
	"strconv"

	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/view"
)

// Names of the blocks.
const (
	Paragraph = "paragraph"
	Heading   = "heading"
	CodeBlock = "codeBlock"
)

// LevelKey is the attribute holding the level of a heading, 1 to 6.
const LevelKey = "level"

// Items are the definitions of the blocks of this schema. They all inherit
// from the generic block, so that features extending it, such as lists,
// apply to all of them.
var Items = []model.ItemDefinition{
	// A plain paragraph textblock. Rendered as a <p> element.
	{Name: Paragraph, IsBlock: true, IsTextBlock: true, InheritAllFrom: model.BlockName},

	// A heading textblock, with a level attribute that should hold the number 1
	// to 6. Rendered as <h1> to <h6> elements.
	{Name: Heading, IsBlock: true, IsTextBlock: true, InheritAllFrom: model.BlockName, AllowAttributes: []string{LevelKey}},

	// A code listing. Rendered as a <pre> element with a <code> element inside
	// of it.
	{Name: CodeBlock, IsBlock: true, IsTextBlock: true, InheritAllFrom: model.BlockName},
}

// NewSchema creates a schema holding the basic blocks.
func NewSchema() *model.Schema {
	schema := model.NewSchema()
	if err := AddToSchema(schema); err != nil {
		panic(err)
	}
	return schema
}

// AddToSchema registers the basic blocks.
func AddToSchema(schema *model.Schema) error {
	for _, item := range Items {
		if err := schema.Register(item); err != nil {
			return err
		}
	}
	return nil
}

// AddConverters registers how the basic blocks are rendered.
func AddConverters(d *conversion.Dispatcher) {
	d.ElementToElement(Paragraph, func(node *model.Node) *view.Node {
		return view.NewContainer("p", nil)
	})
	d.ElementToElement(Heading, func(node *model.Node) *view.Node {
		return view.NewContainer("h"+strconv.Itoa(HeadingLevel(node)), nil)
	})
	d.ElementToElement(CodeBlock, func(node *model.Node) *view.Node {
		return view.NewContainer("pre", nil, view.NewContainer("code", nil))
	})
}

// HeadingLevel returns the level of a heading, clamped to 1..6.
func HeadingLevel(node *model.Node) int {
	level := 1
	switch v := node.GetAttribute(LevelKey).(type) {
	case int:
		level = v
	case float64:
		level = int(v)
	}
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
