package model

// Document holds the root of the model tree, the selection, the schema and
// the differ that records what changed since the last flush.
type Document struct {
	Root      *Node
	Selection *Selection
	Schema    *Schema
	Differ    *Differ
}

// NewDocument creates an empty document using the given schema.
func NewDocument(schema *Schema) *Document {
	root := NewElement(RootName, nil)
	return &Document{
		Root:      root,
		Selection: NewSelection(PositionAt(root, 0)),
		Schema:    schema,
		Differ:    NewDiffer(),
	}
}

// Blocks returns the top-level blocks of the document.
func (d *Document) Blocks() []*Node {
	return d.Root.Children()
}
