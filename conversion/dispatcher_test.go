package conversion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	. "github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	. "github.com/cozy/prosemirror-lists/test/builder"
	"github.com/cozy/prosemirror-lists/transform"
	"github.com/cozy/prosemirror-lists/view"
)

const quotedKey = "quoted"

type rendered struct {
	doc        *model.Document
	model      *transform.Model
	view       *view.Document
	dispatcher *Dispatcher
}

func newRendered(t *testing.T) *rendered {
	schema := basic.NewSchema()
	require.NoError(t, schema.Extend(model.BlockName, quotedKey))
	r := &rendered{doc: model.NewDocument(schema), view: view.NewDocument()}
	r.model = transform.NewModel(r.doc)
	r.dispatcher = NewDispatcher(NewMapper(), r.view, zaptest.NewLogger(t))
	r.dispatcher.Mapper().Bind(r.doc.Root, r.view.Root)
	basic.AddConverters(r.dispatcher)
	r.model.OnChange(r.dispatcher.ConvertChanges)
	return r
}

func (r *rendered) html(t *testing.T) string {
	out, err := view.Render(r.view.Root)
	require.NoError(t, err)
	return out
}

func (r *rendered) change(t *testing.T, fn func(w *transform.Writer) error) {
	require.NoError(t, r.model.Change(fn))
}

// quoteStructure renders the blocks having the quoted attribute inside a
// blockquote each.
func quoteStructure(r *rendered) {
	trigger := func(item model.DiffItem) *Patch {
		if item.Type != model.DiffAttribute || item.AttributeKey != quotedKey {
			return nil
		}
		consumables := []Consumable{{Node: item.Node, Key: AttributeKey(quotedKey)}}
		if item.AttributeNewValue == nil {
			return &Patch{Range: model.NewRange(item.Position), Remove: true, Consumables: consumables}
		}
		return &Patch{Range: model.RangeOn(item.Node), Consumables: consumables}
	}
	build := func(blocks []*model.Node, slotFor SlotFor) []*view.Node {
		var out []*view.Node
		for _, block := range blocks {
			if block.HasAttribute(quotedKey) {
				out = append(out, view.NewContainer("blockquote", nil, slotFor(block)))
			} else {
				out = append(out, slotFor(block))
			}
		}
		return out
	}
	r.dispatcher.RangeToStructure(trigger, build, view.PriorityNormal)
}

func TestDispatcherElements(t *testing.T) {
	r := newRendered(t)
	root := r.doc.Root

	r.change(t, func(w *transform.Writer) error {
		if err := w.Append(P("foo"), root); err != nil {
			return err
		}
		if err := w.Append(H(2, "title"), root); err != nil {
			return err
		}
		return w.Append(Pre("x := 1"), root)
	})
	assert.Equal(t, `<p>foo</p><h2>title</h2><pre><code>x := 1</code></pre>`, r.html(t))

	// text changes refresh the block
	r.change(t, func(w *transform.Writer) error {
		return w.InsertText("d", model.PositionAt(root.Child(0), 3))
	})
	assert.Equal(t, `<p>food</p><h2>title</h2><pre><code>x := 1</code></pre>`, r.html(t))

	// attribute changes refresh the block
	r.change(t, func(w *transform.Writer) error {
		return w.SetAttribute(basic.LevelKey, 3, root.Child(1))
	})
	assert.Equal(t, `<p>food</p><h3>title</h3><pre><code>x := 1</code></pre>`, r.html(t))

	r.change(t, func(w *transform.Writer) error {
		if err := w.Remove(root.Child(1)); err != nil {
			return err
		}
		return w.Insert(P("new"), model.PositionAt(root, 0))
	})
	assert.Equal(t, `<p>new</p><p>food</p><pre><code>x := 1</code></pre>`, r.html(t))
	assert.Same(t, root.Child(1), r.dispatcher.Mapper().ToModelElement(r.view.Root.Child(1)))
}

func TestDispatcherStructures(t *testing.T) {
	r := newRendered(t)
	quoteStructure(r)
	root := r.doc.Root
	r.change(t, func(w *transform.Writer) error {
		for _, text := range []string{"a", "b", "c"} {
			if err := w.Append(P(text), root); err != nil {
				return err
			}
		}
		return nil
	})
	b := root.Child(1)
	viewB := r.dispatcher.Mapper().ToViewElement(b)

	r.change(t, func(w *transform.Writer) error {
		return w.SetAttribute(quotedKey, true, b)
	})
	assert.Equal(t, `<p>a</p><blockquote><p>b</p></blockquote><p>c</p>`, r.html(t))
	// the view of the block is reused
	assert.Same(t, viewB, r.dispatcher.Mapper().ToViewElement(b))

	// the structure is kept when content changes
	r.change(t, func(w *transform.Writer) error {
		return w.InsertText("!", model.PositionAt(b, 1))
	})
	assert.Equal(t, `<p>a</p><blockquote><p>b!</p></blockquote><p>c</p>`, r.html(t))

	r.change(t, func(w *transform.Writer) error {
		return w.RemoveAttribute(quotedKey, b)
	})
	assert.Equal(t, `<p>a</p><p>b!</p><p>c</p>`, r.html(t))

	// removing a wrapped block removes its wrapper
	r.change(t, func(w *transform.Writer) error {
		return w.SetAttribute(quotedKey, true, root.Child(2))
	})
	assert.Equal(t, `<p>a</p><p>b!</p><blockquote><p>c</p></blockquote>`, r.html(t))
	r.change(t, func(w *transform.Writer) error {
		return w.Remove(root.Child(2))
	})
	assert.Equal(t, `<p>a</p><p>b!</p>`, r.html(t))
}

func TestDispatcherConvertAll(t *testing.T) {
	r := newRendered(t)
	root := r.doc.Root
	r.change(t, func(w *transform.Writer) error {
		if err := w.Append(P("a"), root); err != nil {
			return err
		}
		return w.Append(P("b"), root)
	})
	r.view.Root.Child(0).Remove()

	r.dispatcher.ConvertAll(r.doc)
	assert.Equal(t, `<p>a</p><p>b</p>`, r.html(t))
	assert.Same(t, r.view.Root, r.dispatcher.Mapper().ToViewElement(root))
}
