package conversion

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/view"
)

// ElementConverter creates the view element of a model element. The content
// of the model element is converted into the innermost first container of
// the returned element, so a converter may return nested elements such as
// pre(code).
type ElementConverter func(node *model.Node) *view.Node

// Patch is what a structure trigger asks for: rebuild the structure rendering
// the model range, or, when Remove is set, remove the structure starting at
// the collapsed range without replacing it.
type Patch struct {
	Range       model.Range
	Remove      bool
	Consumables []Consumable
}

// StructureTrigger inspects a change and returns the patch it requires, or
// nil when it does not care about the change.
type StructureTrigger func(item model.DiffItem) *Patch

// SlotFor returns the placeholder of a model element in a view structure.
type SlotFor func(node *model.Node) *view.Node

// StructureBuilder builds the view nodes rendering a range of sibling model
// elements. The content of each element is represented by a slot.
type StructureBuilder func(blocks []*model.Node, slotFor SlotFor) []*view.Node

type structureConverter struct {
	priority int
	seq      int
	trigger  StructureTrigger
	build    StructureBuilder
}

// Dispatcher converts model changes into view changes.
type Dispatcher struct {
	mapper     *Mapper
	view       *view.Document
	converters map[string]ElementConverter
	structures []*structureConverter
	logger     *zap.Logger
}

// NewDispatcher creates a dispatcher rendering into the view document.
func NewDispatcher(mapper *Mapper, doc *view.Document, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		mapper:     mapper,
		view:       doc,
		converters: map[string]ElementConverter{},
		logger:     logger,
	}
}

// Mapper returns the mapper used by the dispatcher.
func (d *Dispatcher) Mapper() *Mapper {
	return d.mapper
}

// ElementToElement registers the converter of model elements with the given
// name.
func (d *Dispatcher) ElementToElement(name string, conv ElementConverter) {
	d.converters[name] = conv
}

// RangeToStructure registers a structure converter. Triggers are consulted
// by decreasing priority, and the first one returning a patch wins.
func (d *Dispatcher) RangeToStructure(trigger StructureTrigger, build StructureBuilder, priority int) {
	d.structures = append(d.structures, &structureConverter{
		priority: priority,
		seq:      len(d.structures),
		trigger:  trigger,
		build:    build,
	})
	sort.SliceStable(d.structures, func(i, j int) bool {
		if d.structures[i].priority != d.structures[j].priority {
			return d.structures[i].priority > d.structures[j].priority
		}
		return d.structures[i].seq < d.structures[j].seq
	})
}

type pendingStructure struct {
	converter *structureConverter
	parent    *model.Node
	first     int
	last      int
}

// ConvertChanges updates the view with the changes of a committed batch.
func (d *Dispatcher) ConvertChanges(changes []model.DiffItem) {
	consumables := NewConsumables()
	for _, c := range changes {
		if c.Type == model.DiffAttribute {
			consumables.Add(c.Node, AttributeKey(c.AttributeKey))
		}
	}

	dirty := map[*model.Node]bool{}
	inserted := map[*model.Node]bool{}
	for _, c := range changes {
		switch c.Type {
		case model.DiffRemove:
			if c.Name == model.TextName {
				dirty[c.Position.Parent] = true
				continue
			}
			d.removeView(c.Node)
		case model.DiffInsert:
			if c.Name == model.TextName {
				dirty[c.Position.Parent] = true
				continue
			}
			inserted[c.Node] = true
		}
	}

	var structures []*pendingStructure
	var removals []*Patch
	for _, c := range changes {
		if c.Type == model.DiffAttribute && !consumables.Test(c.Node, AttributeKey(c.AttributeKey)) {
			continue
		}
		for _, s := range d.structures {
			patch := s.trigger(c)
			if patch == nil {
				continue
			}
			for _, item := range patch.Consumables {
				consumables.Consume(item.Node, item.Key)
			}
			if patch.Remove {
				removals = append(removals, patch)
			} else if items := patch.Range.Items(); len(items) > 0 {
				structures = append(structures, &pendingStructure{
					converter: s,
					parent:    patch.Range.Start.Parent,
					first:     items[0].Index(),
					last:      items[len(items)-1].Index(),
				})
			}
			break
		}
	}
	structures = mergeStructures(structures)

	fresh := map[*model.Node]bool{}
	for _, parent := range d.parentsToVisit(structures, inserted) {
		starts := map[int]*pendingStructure{}
		for _, s := range structures {
			if s.parent == parent {
				starts[s.first] = s
			}
		}
		for i := 0; i < parent.ChildCount(); i++ {
			if s, ok := starts[i]; ok {
				d.convertStructure(s, fresh)
				i = s.last
				continue
			}
			child := parent.Child(i)
			if inserted[child] && !d.isRendered(child) {
				d.insertElement(child, fresh)
			}
		}
	}

	for _, patch := range removals {
		d.removeStructure(patch)
	}

	for _, c := range changes {
		if c.Type != model.DiffAttribute || !consumables.Test(c.Node, AttributeKey(c.AttributeKey)) {
			continue
		}
		consumables.Consume(c.Node, AttributeKey(c.AttributeKey))
		dirty[c.Node] = true
	}
	for node := range dirty {
		if !fresh[node] && node.IsAttached() {
			d.refresh(node, fresh)
		}
	}
}

// ConvertAll renders the whole document from scratch.
func (d *Dispatcher) ConvertAll(doc *model.Document) {
	d.view.Root.RemoveChildren()
	d.mapper.Bind(doc.Root, d.view.Root)
	changes := make([]model.DiffItem, 0, doc.Root.ChildCount())
	for _, block := range doc.Root.Children() {
		changes = append(changes, model.DiffItem{
			Type:       model.DiffInsert,
			Name:       block.Name,
			Position:   model.PositionBefore(block),
			Node:       block,
			Attributes: block.Attrs,
		})
	}
	d.ConvertChanges(changes)
}

// mergeStructures joins the structures of the same converter that overlap or
// touch each other.
func mergeStructures(structures []*pendingStructure) []*pendingStructure {
	sort.SliceStable(structures, func(i, j int) bool {
		a, b := structures[i], structures[j]
		if a.parent != b.parent {
			return model.PositionAt(a.parent, 0).Compare(model.PositionAt(b.parent, 0)) < 0
		}
		return a.first < b.first
	})
	var merged []*pendingStructure
	for _, s := range structures {
		if n := len(merged); n > 0 {
			prev := merged[n-1]
			if prev.parent == s.parent && prev.converter == s.converter && s.first <= prev.last+1 {
				if s.last > prev.last {
					prev.last = s.last
				}
				continue
			}
		}
		merged = append(merged, s)
	}
	return merged
}

func (d *Dispatcher) parentsToVisit(structures []*pendingStructure, inserted map[*model.Node]bool) []*model.Node {
	seen := map[*model.Node]bool{}
	var parents []*model.Node
	add := func(parent *model.Node) {
		if parent == nil || seen[parent] || !parent.IsAttached() || d.mapper.ToViewElement(parent) == nil {
			return
		}
		seen[parent] = true
		parents = append(parents, parent)
	}
	for _, s := range structures {
		add(s.parent)
	}
	for node := range inserted {
		add(node.Parent())
	}
	sort.Slice(parents, func(i, j int) bool {
		return model.PositionAt(parents[i], 0).Compare(model.PositionAt(parents[j], 0)) < 0
	})
	return parents
}

// isRendered reports whether the model element has a view element attached
// to the view root.
func (d *Dispatcher) isRendered(node *model.Node) bool {
	v := d.mapper.ToViewElement(node)
	return v != nil && v.Root() == d.view.Root
}

// convertElement converts a model element and its content, and binds it.
func (d *Dispatcher) convertElement(node *model.Node, fresh map[*model.Node]bool) *view.Node {
	var el *view.Node
	if conv, ok := d.converters[node.Name]; ok {
		el = conv(node)
	} else {
		el = view.NewContainer(node.Name, nil)
	}
	content := el
	for content.ChildCount() > 0 && content.Child(0).Kind == view.KindContainer {
		content = content.Child(0)
	}
	for _, child := range node.Children() {
		if child.IsText() {
			content.AppendChildren(view.NewText(child.Text))
			continue
		}
		content.AppendChildren(d.convertElement(child, fresh))
	}
	d.mapper.Bind(node, el)
	fresh[node] = true
	return el
}

func (d *Dispatcher) insertElement(node *model.Node, fresh map[*model.Node]bool) {
	pos := d.mapper.ToViewPosition(model.PositionBefore(node))
	if !pos.IsSet() || pos.Parent.IsText() {
		d.logger.Debug("cannot map insertion position", zap.String("name", node.Name), zap.Ints("path", node.Path()))
		return
	}
	pos.Parent.InsertChildren(pos.Offset, d.convertElement(node, fresh))
}

// refresh converts an already rendered element again, in place.
func (d *Dispatcher) refresh(node *model.Node, fresh map[*model.Node]bool) {
	old := d.mapper.ToViewElement(node)
	if old == nil || old.Root() != d.view.Root {
		return
	}
	old.ReplaceWith(d.convertElement(node, fresh))
}

// removeView detaches the view of a removed model element, and the wrappers
// it leaves empty.
func (d *Dispatcher) removeView(node *model.Node) {
	v := d.mapper.ToViewElement(node)
	if v == nil {
		return
	}
	parent := v.Parent()
	v.Remove()
	d.mapper.UnbindModel(node)
	for parent != nil && parent.Kind == view.KindContainer && parent.ChildCount() == 0 && d.mapper.ToModelElement(parent) == nil {
		next := parent.Parent()
		parent.Remove()
		parent = next
	}
}

// convertStructure replaces the view of a range of siblings by a freshly
// built structure, reusing the views of the elements through slots.
func (d *Dispatcher) convertStructure(s *pendingStructure, fresh map[*model.Node]bool) {
	viewParent := d.mapper.ToViewElement(s.parent)
	var tops []*view.Node
	for {
		tops = d.topViews(s, viewParent)
		if !d.extendToBound(s, tops) {
			break
		}
	}
	blocks := append([]*model.Node(nil), s.parent.Children()[s.first:s.last+1]...)

	index := -1
	for _, top := range tops {
		if i := top.Index(); index < 0 || i < index {
			index = i
		}
	}
	if index < 0 {
		index = 0
		for prev := blocks[0].PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
			if top := topUnder(d.mapper.ToViewElement(prev), viewParent); top != nil {
				index = top.Index() + 1
				break
			}
		}
	}
	for _, top := range tops {
		top.Remove()
	}

	d.logger.Debug("converting structure",
		zap.Ints("path", blocks[0].Path()),
		zap.Int("blocks", len(blocks)))

	fragment := s.converter.build(blocks, view.NewSlot)
	var slots []*view.Node
	for _, node := range fragment {
		node.Walk(func(n *view.Node) bool {
			if n.Kind == view.KindSlot {
				slots = append(slots, n)
				return false
			}
			return true
		})
	}
	for _, slot := range slots {
		content := d.mapper.ToViewElement(slot.Slot)
		if content == nil {
			content = d.convertElement(slot.Slot, fresh)
		}
		if slot.Parent() == nil {
			for i, node := range fragment {
				if node == slot {
					fragment[i] = content
				}
			}
			content.Remove()
			continue
		}
		slot.ReplaceWith(content)
	}
	viewParent.InsertChildren(index, fragment...)
}

// topViews returns the children of viewParent containing the views of the
// structure's elements, in view order.
func (d *Dispatcher) topViews(s *pendingStructure, viewParent *view.Node) []*view.Node {
	seen := map[*view.Node]bool{}
	var tops []*view.Node
	for _, block := range s.parent.Children()[s.first : s.last+1] {
		top := topUnder(d.mapper.ToViewElement(block), viewParent)
		if top != nil && !seen[top] {
			seen[top] = true
			tops = append(tops, top)
		}
	}
	sort.Slice(tops, func(i, j int) bool { return tops[i].Index() < tops[j].Index() })
	return tops
}

// extendToBound grows the structure so that it covers every sibling whose
// view lives in one of the tops. It reports whether it changed anything.
func (d *Dispatcher) extendToBound(s *pendingStructure, tops []*view.Node) bool {
	changed := false
	for _, top := range tops {
		top.Walk(func(n *view.Node) bool {
			bound := d.mapper.ToModelElement(n)
			if bound == nil {
				return true
			}
			if bound.Parent() == s.parent {
				if i := bound.Index(); i < s.first {
					s.first, changed = i, true
				} else if i > s.last {
					s.last, changed = i, true
				}
			}
			return false
		})
	}
	return changed
}

// removeStructure removes the unbound wrapper found at the position of the
// patch, putting back in its place the content it held which is still in the
// document.
func (d *Dispatcher) removeStructure(patch *Patch) {
	pos := d.mapper.ToPhantomViewPosition(patch.Range.Start)
	if !pos.IsSet() {
		return
	}
	target := pos.NodeAfter()
	if target == nil || target.Kind != view.KindContainer || d.mapper.ToModelElement(target) != nil {
		return
	}
	var kept []*view.Node
	target.Walk(func(n *view.Node) bool {
		bound := d.mapper.ToModelElement(n)
		if bound == nil {
			return true
		}
		if bound.IsAttached() {
			kept = append(kept, n)
		}
		return false
	})
	d.logger.Debug("removing structure", zap.Stringer("position", patch.Range.Start), zap.Int("kept", len(kept)))
	target.ReplaceWith(kept...)
}

// topUnder returns the ancestor-or-self of node that is a child of parent.
func topUnder(node, parent *view.Node) *view.Node {
	for n := node; n != nil; n = n.Parent() {
		if n.Parent() == parent {
			return n
		}
	}
	return nil
}
