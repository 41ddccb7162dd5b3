package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	"github.com/cozy/prosemirror-lists/schema/list"
)

// NodeSerializerFunc is the function to serialize a block.
type NodeSerializerFunc func(state *SerializerState, node *model.Node)

// Serializer is a specification for serializing a document as
// Markdown/CommonMark text.
type Serializer struct {
	Nodes map[string]NodeSerializerFunc
}

// NewSerializer constructs a serializer with the given configuration. The
// `nodes` object should map block names in a given schema to functions that
// take a serializer state and such a block, and serialize the block.
//
// List items need no entry: runs of blocks carrying the list attributes are
// rendered as nested CommonMark lists around the output of their own
// serializer.
func NewSerializer(nodes map[string]NodeSerializerFunc) *Serializer {
	return &Serializer{Nodes: nodes}
}

// Serialize the content of the given root node to CommonMark.
//
// Options:
//
//	tightLists:: ?bool
//	Whether to render lists in a tight style. Defaults to false.
func (s *Serializer) Serialize(root *model.Node, options ...map[string]interface{}) string {
	opts := map[string]interface{}{}
	if len(options) > 0 {
		opts = options[0]
	}
	state := NewSerializerState(s.Nodes, opts)
	state.RenderContent(root)
	return state.Out
}

var backticksRegexp = regexp.MustCompile("`{3,}")

// DefaultSerializer is a serializer for the basic schema.
var DefaultSerializer = NewSerializer(map[string]NodeSerializerFunc{
	basic.CodeBlock: func(state *SerializerState, node *model.Node) {
		fence := "```"
		content := node.TextContent()
		for _, backticks := range backticksRegexp.FindAllString(content, -1) {
			if len(backticks) >= len(fence) {
				fence = backticks + "`"
			}
		}
		state.Write(fence + "\n")
		if content != "" {
			state.Text(content, false)
			state.EnsureNewLine()
		}
		state.Write(fence)
		state.CloseBlock(node)
	},
	basic.Heading: func(state *SerializerState, node *model.Node) {
		state.Write(strings.Repeat("#", basic.HeadingLevel(node)) + " ")
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	basic.Paragraph: func(state *SerializerState, node *model.Node) {
		state.RenderInline(node)
		state.CloseBlock(node)
	},
})

// SerializerState is an object used to track state and expose methods related
// to markdown serialization. Instances are passed to the block serializers.
type SerializerState struct {
	Nodes        map[string]NodeSerializerFunc
	Delim        string
	Out          string
	Closed       *model.Node
	AtBlockStart bool
	tightLists   bool
}

// NewSerializerState is the constructor for SerializerState.
func NewSerializerState(nodes map[string]NodeSerializerFunc, options map[string]interface{}) *SerializerState {
	tight := false
	if t, ok := options["tightLists"].(bool); ok {
		tight = t
	}
	return &SerializerState{
		Nodes:      nodes,
		tightLists: tight,
	}
}

func (s *SerializerState) flushClose(size ...int) {
	if s.Closed == nil {
		return
	}
	s.EnsureNewLine()
	siz := 2
	if len(size) > 0 {
		siz = size[0]
	}
	if siz > 1 {
		delimMin := strings.TrimRightFunc(s.Delim, unicode.IsSpace)
		for i := 1; i < siz; i++ {
			s.Out += delimMin + "\n"
		}
	}
	s.Closed = nil
}

// WrapBlock renders a block, prefixing each line with `delim`, and the first
// line in `firstDelim`. `node` should be the node that is closed at the end of
// the block, and `f` is a function that renders the content of the block.
func (s *SerializerState) WrapBlock(delim string, firstDelim *string, node *model.Node, f func()) {
	old := s.Delim
	d := delim
	if firstDelim != nil {
		d = *firstDelim
	}
	s.Write(d)
	s.Delim += delim
	f()
	s.Delim = old
	s.CloseBlock(node)
}

func (s *SerializerState) atBlank() bool {
	if len(s.Out) == 0 {
		return true
	}
	return s.Out[len(s.Out)-1] == '\n'
}

// EnsureNewLine ensures the current content ends with a newline.
func (s *SerializerState) EnsureNewLine() {
	if !s.atBlank() {
		s.Out += "\n"
	}
}

// Write prepares the state for writing output (closing closed paragraphs,
// adding delimiters, and so on), and then optionally add content
// (unescaped) to the output.
func (s *SerializerState) Write(content ...string) {
	s.flushClose()
	if s.Delim != "" && s.atBlank() {
		s.Out += s.Delim
	}
	if len(content) > 0 {
		s.Out += content[0]
	}
}

// CloseBlock closes the block for the given node.
func (s *SerializerState) CloseBlock(node *model.Node) {
	s.Closed = node
}

// Text adds the given text to the document. When escape is not `false`, it
// will be escaped.
func (s *SerializerState) Text(text string, escape ...bool) {
	esc := true
	if len(escape) > 0 {
		esc = escape[0]
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		s.Write()
		if esc {
			s.Out += s.Esc(line, s.AtBlockStart)
		} else {
			s.Out += line
		}
		if i != len(lines)-1 {
			s.Out += "\n"
		}
	}
}

// Render the given node as a block. List items are wrapped by RenderList,
// not here.
func (s *SerializerState) Render(node *model.Node) {
	if fn, ok := s.Nodes[node.Name]; ok {
		fn(s, node)
	}
}

// RenderContent renders the children of `parent` as blocks. Consecutive list
// items are rendered together as a list.
func (s *SerializerState) RenderContent(parent *model.Node) {
	children := parent.Children()
	for i := 0; i < len(children); {
		if _, ok := list.InfoOf(children[i]); !ok {
			s.Render(children[i])
			i++
			continue
		}
		end := i + 1
		for end < len(children) {
			if _, ok := list.InfoOf(children[end]); !ok {
				break
			}
			end++
		}
		s.RenderList(children[i:end])
		i = end
	}
}

// RenderInline renders the text of a textblock. Newlines become hard breaks.
func (s *SerializerState) RenderInline(parent *model.Node) {
	lines := strings.Split(parent.TextContent(), "\n")
	for i, line := range lines {
		s.AtBlockStart = i == 0
		s.Text(line)
		if i != len(lines)-1 {
			s.Out += "\\\n"
		}
	}
	s.AtBlockStart = false
}

type listLevel struct {
	kind   list.Kind
	count  int
	column int
}

// RenderList renders a run of list items. The first block of each group
// gets a marker, nested under the content of the item one level up, and the
// other blocks of the group are continuation paragraphs of the same item.
func (s *SerializerState) RenderList(items []*model.Node) {
	var levels []listLevel
	prevGroup := ""
	for i, item := range items {
		info, _ := list.InfoOf(item)
		if info.Indent > len(levels) {
			info.Indent = len(levels)
		}

		if i > 0 && info.GroupID == prevGroup && info.Indent < len(levels) {
			s.flushClose(2)
			delim := strings.Repeat(" ", levels[info.Indent].column)
			s.WrapBlock(delim, nil, item, func() { s.Render(item) })
			continue
		}
		prevGroup = info.GroupID

		if i > 0 {
			if s.tightLists {
				s.flushClose(1)
			} else {
				s.flushClose(2)
			}
		}

		base := 0
		if info.Indent > 0 {
			base = levels[info.Indent-1].column
		}
		count := 1
		if info.Indent < len(levels) && levels[info.Indent].kind == info.Kind {
			count = levels[info.Indent].count + 1
		}
		marker := "- "
		if info.Kind == list.Numbered {
			marker = fmt.Sprintf("%d. ", count)
		}
		levels = append(levels[:info.Indent], listLevel{
			kind:   info.Kind,
			count:  count,
			column: base + len(marker),
		})

		first := strings.Repeat(" ", base) + marker
		s.WrapBlock(strings.Repeat(" ", base+len(marker)), &first, item, func() { s.Render(item) })
	}
}

var (
	escRegexp1 = regexp.MustCompile("([`*\\\\~\\[\\]])")
	escRegexp2 = regexp.MustCompile(`(\b_)|(_\b)`)
	escRegexp3 = regexp.MustCompile(`^([#\-*+>])`)
	escRegexp4 = regexp.MustCompile(`^(\s*\d+)\.`)
)

// Esc escapes the given string so that it can safely appear in Markdown
// content. If `startOfLine` is true, also escape characters that have special
// meaning only at the start of the line.
func (s *SerializerState) Esc(str string, startOfLine ...bool) string {
	start := false
	if len(startOfLine) > 0 {
		start = startOfLine[0]
	}
	str = escRegexp1.ReplaceAllString(str, "\\$1")
	str = escRegexp2.ReplaceAllString(str, "\\_")
	if start {
		str = escRegexp3.ReplaceAllString(str, "\\$1")
		str = escRegexp4.ReplaceAllString(str, "$1\\.")
	}
	return str
}
