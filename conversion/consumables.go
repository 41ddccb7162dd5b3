package conversion

import "github.com/cozy/prosemirror-lists/model"

// Consumable names a part of a change, such as "attribute:listIndent", on a
// model node.
type Consumable struct {
	Node *model.Node
	Key  string
}

// AttributeKey returns the consumable key of an attribute change.
func AttributeKey(attribute string) string {
	return "attribute:" + attribute
}

// Consumables tracks which parts of the changes of a batch still need to be
// converted, so that each one is handled by exactly one converter.
type Consumables struct {
	items map[*model.Node]map[string]bool
}

// NewConsumables creates an empty set.
func NewConsumables() *Consumables {
	return &Consumables{items: map[*model.Node]map[string]bool{}}
}

// Add marks the key as waiting for conversion.
func (c *Consumables) Add(node *model.Node, key string) {
	keys, ok := c.items[node]
	if !ok {
		keys = map[string]bool{}
		c.items[node] = keys
	}
	if _, seen := keys[key]; !seen {
		keys[key] = true
	}
}

// Test reports whether the key was added and not consumed yet.
func (c *Consumables) Test(node *model.Node, key string) bool {
	return c.items[node][key]
}

// Consume marks the key as converted. It returns whether it was available.
// Consuming a key that was never added still prevents adding it later.
func (c *Consumables) Consume(node *model.Node, key string) bool {
	available := c.Test(node, key)
	keys, ok := c.items[node]
	if !ok {
		keys = map[string]bool{}
		c.items[node] = keys
	}
	keys[key] = false
	return available
}
