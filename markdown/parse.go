// Package markdown converts documents from and to CommonMark. Lists become
// flat runs of blocks carrying the list attributes on the way in, and the
// runs are turned back into nested lists on the way out.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	"github.com/cozy/prosemirror-lists/schema/list"
)

// Parser turns CommonMark text into the blocks of the basic schema.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a CommonMark parser.
func NewParser() *Parser {
	return &Parser{md: goldmark.New()}
}

// Parse parses the source. Block quotes are flattened, and thematic breaks
// and raw HTML are dropped.
func (p *Parser) Parse(source []byte) []*model.Node {
	root := p.md.Parser().Parse(text.NewReader(source))
	s := &parseState{source: source}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		s.convertBlock(child, nil)
	}
	return s.blocks
}

// Parse parses the source with a default parser.
func Parse(source string) []*model.Node {
	return NewParser().Parse([]byte(source))
}

type parseState struct {
	source []byte
	blocks []*model.Node
}

// convertBlock appends the blocks for node. item is the list item the node
// belongs to, if any.
func (s *parseState) convertBlock(node ast.Node, item *list.Info) {
	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		s.add(basic.Paragraph, nil, s.inlineText(typed), item)

	case *ast.Heading:
		attrs := map[string]interface{}{basic.LevelKey: typed.Level}
		s.add(basic.Heading, attrs, s.inlineText(typed), item)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			b.Write(segment.Value(s.source))
		}
		s.add(basic.CodeBlock, nil, strings.TrimSuffix(b.String(), "\n"), item)

	case *ast.List:
		indent := 0
		if item != nil {
			indent = item.Indent + 1
		}
		s.convertList(typed, indent)

	case *ast.Blockquote:
		for child := typed.FirstChild(); child != nil; child = child.NextSibling() {
			s.convertBlock(child, item)
		}
	}
}

func (s *parseState) convertList(node *ast.List, indent int) {
	kind := list.Bulleted
	if node.IsOrdered() {
		kind = list.Numbered
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*ast.ListItem); !ok {
			continue
		}
		item := list.Info{Indent: indent, Kind: kind, GroupID: list.NewGroupID()}
		if child.FirstChild() == nil {
			s.add(basic.Paragraph, nil, "", &item)
			continue
		}
		for block := child.FirstChild(); block != nil; block = block.NextSibling() {
			s.convertBlock(block, &item)
			if _, nested := block.(*ast.List); nested {
				// Blocks after a nested list cannot join the group above it.
				item.GroupID = list.NewGroupID()
			}
		}
	}
}

func (s *parseState) add(name string, attrs map[string]interface{}, content string, item *list.Info) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	if item != nil {
		for k, v := range item.Attributes() {
			attrs[k] = v
		}
	}
	var children []*model.Node
	if content != "" {
		children = append(children, model.NewText(content))
	}
	s.blocks = append(s.blocks, model.NewElement(name, attrs, children...))
}

func (s *parseState) inlineText(node ast.Node) string {
	var b strings.Builder
	s.writeInline(&b, node)
	return b.String()
}

func (s *parseState) writeInline(b *strings.Builder, parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			b.Write(util.UnescapePunctuations(typed.Value(s.source)))
			if typed.HardLineBreak() {
				b.WriteString("\n")
			} else if typed.SoftLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(typed.Value)
		case *ast.AutoLink:
			b.Write(typed.URL(s.source))
		case *ast.CodeSpan:
			for c := typed.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Value(s.source))
				}
			}
		case *ast.RawHTML:
		default:
			s.writeInline(b, child)
		}
	}
}
