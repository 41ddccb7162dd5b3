// Package list defines the list attributes. Any block becomes a list item by
// carrying the three of them: there is no dedicated list or item element in
// the model, the nesting is rendered from the indent of consecutive items.
package list

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cozy/prosemirror-lists/model"
)

// The attributes of a list item.
const (
	IndentKey  = "listIndent"
	KindKey    = "listKind"
	GroupIDKey = "listGroupId"
)

// Keys are all the list attributes.
var Keys = []string{IndentKey, KindKey, GroupIDKey}

// Kind is the kind of list an item belongs to.
type Kind string

const (
	Numbered Kind = "numbered"
	Bulleted Kind = "bulleted"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == Numbered || k == Bulleted
}

// ViewName returns the name of the element rendering a list of this kind.
func (k Kind) ViewName() string {
	if k == Numbered {
		return "ol"
	}
	return "ul"
}

// Info is the typed form of the list attributes of a block. Blocks sharing
// a group id, next to each other, form one logical item.
type Info struct {
	Indent  int
	Kind    Kind
	GroupID string
}

// InfoOf reads the list attributes of a node. The group id is authoritative:
// a node without it is not a list item, whatever its other attributes.
func InfoOf(node *model.Node) (Info, bool) {
	if node == nil || !node.IsElement() {
		return Info{}, false
	}
	id, ok := node.GetAttribute(GroupIDKey).(string)
	if !ok || id == "" {
		return Info{}, false
	}
	info := Info{GroupID: id, Indent: toInt(node.GetAttribute(IndentKey))}
	switch k := node.GetAttribute(KindKey).(type) {
	case Kind:
		info.Kind = k
	case string:
		info.Kind = Kind(k)
	}
	if !info.Kind.IsValid() {
		info.Kind = Bulleted
	}
	return info, true
}

// Attributes returns the attributes to set on a block.
func (i Info) Attributes() map[string]interface{} {
	return map[string]interface{}{
		IndentKey:  i.Indent,
		KindKey:    string(i.Kind),
		GroupIDKey: i.GroupID,
	}
}

// AttributeWriter is the part of transform.Writer used to write the list
// attributes.
type AttributeWriter interface {
	SetAttributes(attrs map[string]interface{}, node *model.Node) error
}

// Set writes the three list attributes at once.
func Set(w AttributeWriter, node *model.Node, info Info) error {
	if info.GroupID == "" {
		return fmt.Errorf("list: empty group id on %s", node.Name)
	}
	if !info.Kind.IsValid() {
		return fmt.Errorf("list: invalid kind %q", info.Kind)
	}
	if info.Indent < 0 {
		return fmt.Errorf("list: negative indent %d", info.Indent)
	}
	return w.SetAttributes(info.Attributes(), node)
}

// Clear removes the three list attributes at once.
func Clear(w AttributeWriter, node *model.Node) error {
	attrs := map[string]interface{}{}
	for _, key := range Keys {
		if node.HasAttribute(key) {
			attrs[key] = nil
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return w.SetAttributes(attrs, node)
}

// AddListAttributes allows the list attributes on every block.
func AddListAttributes(schema *model.Schema) error {
	return schema.Extend(model.BlockName, Keys...)
}

// NewGroupID returns a fresh group id.
func NewGroupID() string {
	return uuid.NewString()
}

// IsListAttribute reports whether key is one of the list attributes.
func IsListAttribute(key string) bool {
	return key == IndentKey || key == KindKey || key == GroupIDKey
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
