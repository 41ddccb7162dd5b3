package view

import (
	"bytes"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToDOM converts a view node, and its descendants, to an HTML node. Slots
// and UI elements produce nothing.
func ToDOM(n *Node) *html.Node {
	switch n.Kind {
	case KindText:
		return &html.Node{Type: html.TextNode, Data: n.Text}
	case KindSlot, KindUI:
		return nil
	case KindRoot:
		target := &html.Node{Type: html.DocumentNode}
		appendChildren(target, n)
		return target
	}
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(n.Name)),
		Data:     n.Name,
		Attr:     getAttrs(n),
	}
	appendChildren(node, n)
	return node
}

func appendChildren(target *html.Node, n *Node) {
	for _, child := range n.Children() {
		if c := ToDOM(child); c != nil {
			target.AppendChild(c)
		}
	}
}

func getAttrs(n *Node) []html.Attribute {
	if len(n.Attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		result = append(result, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	return result
}

// Render serializes the node to an HTML string. For a root, only its
// content is serialized.
func Render(n *Node) (string, error) {
	dom := ToDOM(n)
	if dom == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if dom.Type == html.DocumentNode {
		for c := dom.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}
	if err := html.Render(&buf, dom); err != nil {
		return "", err
	}
	return buf.String(), nil
}
