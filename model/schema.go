package model

import (
	"fmt"
	"sort"
)

// BlockName is the generic item definition every block inherits from.
// Extending it allows attributes on all blocks at once.
const BlockName = "$block"

// ItemDefinition describes an element that may appear in a document.
type ItemDefinition struct {
	// The name of the element.
	Name string
	// True for block elements (direct children of the root).
	IsBlock bool
	// True when the element may only contain text.
	IsTextBlock bool
	// The attributes allowed on the element, in addition to the inherited
	// ones.
	AllowAttributes []string
	// When set, the element also accepts every attribute allowed on this
	// other definition (typically BlockName).
	InheritAllFrom string
}

// Schema holds the element definitions of a document. It is consulted by the
// Writer before setting attributes, so that features can only write the
// attributes they declared.
type Schema struct {
	items map[string]*ItemDefinition
}

// NewSchema creates a schema that only knows about the root and the generic
// block.
func NewSchema() *Schema {
	s := &Schema{items: map[string]*ItemDefinition{}}
	s.items[RootName] = &ItemDefinition{Name: RootName}
	s.items[BlockName] = &ItemDefinition{Name: BlockName, IsBlock: true}
	return s
}

// Register adds a new item definition. Registering the same name twice is an
// error.
func (s *Schema) Register(def ItemDefinition) error {
	if _, ok := s.items[def.Name]; ok {
		return fmt.Errorf("schema: item %q is already registered", def.Name)
	}
	d := def
	s.items[def.Name] = &d
	return nil
}

// Extend allows more attributes on an already registered item.
func (s *Schema) Extend(name string, allowAttributes ...string) error {
	def, ok := s.items[name]
	if !ok {
		return fmt.Errorf("schema: cannot extend unknown item %q", name)
	}
	for _, attr := range allowAttributes {
		if !contains(def.AllowAttributes, attr) {
			def.AllowAttributes = append(def.AllowAttributes, attr)
		}
	}
	return nil
}

// Item returns the definition registered under name.
func (s *Schema) Item(name string) (*ItemDefinition, bool) {
	def, ok := s.items[name]
	return def, ok
}

// IsRegistered checks whether an item is known to the schema.
func (s *Schema) IsRegistered(name string) bool {
	_, ok := s.items[name]
	return ok
}

// IsBlock checks whether the node is a block element.
func (s *Schema) IsBlock(node *Node) bool {
	if node == nil || node.IsText() {
		return false
	}
	def, ok := s.items[node.Name]
	return ok && def.IsBlock
}

// CheckAttribute checks whether the attribute is allowed on the node.
func (s *Schema) CheckAttribute(node *Node, key string) bool {
	if node == nil || node.IsText() {
		return false
	}
	def, ok := s.items[node.Name]
	for ok {
		if contains(def.AllowAttributes, key) {
			return true
		}
		if def.InheritAllFrom == "" {
			return false
		}
		def, ok = s.items[def.InheritAllFrom]
	}
	return false
}

// Names returns the registered item names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
