// Package conversion keeps the view tree in sync with the model tree. The
// Mapper links model elements to the view elements rendering them and
// translates positions between both trees, and the Dispatcher turns the
// changes of a committed batch into view updates.
package conversion

import (
	"sort"
	"unicode/utf8"

	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/view"
)

// LengthFunc returns the model length of a view element, for elements whose
// length is not the sum of the model lengths of their children.
type LengthFunc func(m *Mapper, el *view.Node) int

// ModelToViewData is passed along the model-to-view hook chain. The first
// hook that sets ViewPosition wins.
type ModelToViewData struct {
	Mapper        *Mapper
	ModelPosition model.Position
	ViewPosition  view.Position
	// True when the model position does not exist anymore in the view,
	// for instance because the content it pointed to has just been removed.
	IsPhantom bool
}

// ViewToModelData is passed along the view-to-model hook chain.
type ViewToModelData struct {
	Mapper        *Mapper
	ViewPosition  view.Position
	ModelPosition model.Position
}

// A ModelToViewHook is consulted for positions matching its predicate.
type ModelToViewHook struct {
	Priority int
	Match    func(data *ModelToViewData) bool
	Handle   func(data *ModelToViewData)

	seq int
}

// A ViewToModelHook is consulted for positions matching its predicate.
type ViewToModelHook struct {
	Priority int
	Match    func(data *ViewToModelData) bool
	Handle   func(data *ViewToModelData)

	seq int
}

// Mapper holds the links between model and view elements. It is written by
// the dispatcher while it converts changes, and read by everybody else.
type Mapper struct {
	modelToView map[*model.Node]*view.Node
	viewToModel map[*view.Node]*model.Node
	lengths     map[string]LengthFunc

	toView  []*ModelToViewHook
	toModel []*ViewToModelHook
	seq     int
}

// NewMapper creates a mapper with the default position translation hooks
// registered at the lowest priority.
func NewMapper() *Mapper {
	m := &Mapper{
		modelToView: map[*model.Node]*view.Node{},
		viewToModel: map[*view.Node]*model.Node{},
		lengths:     map[string]LengthFunc{},
	}
	m.RegisterModelToViewHook(&ModelToViewHook{
		Priority: view.PriorityLowest,
		Handle:   m.defaultToView,
	})
	m.RegisterViewToModelHook(&ViewToModelHook{
		Priority: view.PriorityLowest,
		Handle:   m.defaultToModel,
	})
	return m
}

// Bind links a model element with the view element rendering it. Previous
// links of both elements are dropped.
func (m *Mapper) Bind(modelElement *model.Node, viewElement *view.Node) {
	if old, ok := m.modelToView[modelElement]; ok {
		delete(m.viewToModel, old)
	}
	if old, ok := m.viewToModel[viewElement]; ok {
		delete(m.modelToView, old)
	}
	m.modelToView[modelElement] = viewElement
	m.viewToModel[viewElement] = modelElement
}

// UnbindModel removes the links of a model element.
func (m *Mapper) UnbindModel(modelElement *model.Node) {
	if v, ok := m.modelToView[modelElement]; ok {
		delete(m.viewToModel, v)
		delete(m.modelToView, modelElement)
	}
}

// UnbindView removes the links of a view element.
func (m *Mapper) UnbindView(viewElement *view.Node) {
	if n, ok := m.viewToModel[viewElement]; ok {
		delete(m.modelToView, n)
		delete(m.viewToModel, viewElement)
	}
}

// ToViewElement returns the view element bound to the model element.
func (m *Mapper) ToViewElement(modelElement *model.Node) *view.Node {
	return m.modelToView[modelElement]
}

// ToModelElement returns the model element bound to the view element.
func (m *Mapper) ToModelElement(viewElement *view.Node) *model.Node {
	return m.viewToModel[viewElement]
}

// FindMappedViewAncestor returns the closest bound ancestor (or the parent
// itself) of the position.
func (m *Mapper) FindMappedViewAncestor(pos view.Position) *view.Node {
	for node := pos.Parent; node != nil; node = node.Parent() {
		if _, ok := m.viewToModel[node]; ok {
			return node
		}
	}
	return nil
}

// RegisterViewToModelLength registers a function computing the model length
// of view elements with the given name.
func (m *Mapper) RegisterViewToModelLength(name string, fn LengthFunc) {
	m.lengths[name] = fn
}

// RegisterModelToViewHook adds a hook to the model-to-view chain.
func (m *Mapper) RegisterModelToViewHook(hook *ModelToViewHook) {
	hook.seq = m.seq
	m.seq++
	m.toView = append(m.toView, hook)
	sort.SliceStable(m.toView, func(i, j int) bool {
		if m.toView[i].Priority != m.toView[j].Priority {
			return m.toView[i].Priority > m.toView[j].Priority
		}
		return m.toView[i].seq < m.toView[j].seq
	})
}

// RegisterViewToModelHook adds a hook to the view-to-model chain.
func (m *Mapper) RegisterViewToModelHook(hook *ViewToModelHook) {
	hook.seq = m.seq
	m.seq++
	m.toModel = append(m.toModel, hook)
	sort.SliceStable(m.toModel, func(i, j int) bool {
		if m.toModel[i].Priority != m.toModel[j].Priority {
			return m.toModel[i].Priority > m.toModel[j].Priority
		}
		return m.toModel[i].seq < m.toModel[j].seq
	})
}

// GetModelLength returns how much of the model offset space the view node
// stands for.
func (m *Mapper) GetModelLength(node *view.Node) int {
	if node == nil {
		return 0
	}
	if fn, ok := m.lengths[node.Name]; ok {
		return fn(m, node)
	}
	if bound, ok := m.viewToModel[node]; ok {
		return bound.OffsetSize()
	}
	switch node.Kind {
	case view.KindText:
		return utf8.RuneCountInString(node.Text)
	case view.KindUI:
		return 0
	case view.KindSlot:
		if node.Slot != nil {
			return node.Slot.OffsetSize()
		}
		return 0
	}
	length := 0
	for _, child := range node.Children() {
		length += m.GetModelLength(child)
	}
	return length
}

// FindPositionIn finds the view position inside parent whose model offset,
// counted from the start of parent, is expectedOffset. It descends into the
// children when the offset falls inside one of them.
func (m *Mapper) FindPositionIn(parent *view.Node, expectedOffset int) view.Position {
	if parent.IsText() {
		return view.PositionAt(parent, expectedOffset)
	}
	modelOffset, viewOffset := 0, 0
	var node *view.Node
	for modelOffset < expectedOffset {
		node = parent.Child(viewOffset)
		if node == nil {
			break
		}
		modelOffset += m.GetModelLength(node)
		viewOffset++
	}
	if modelOffset <= expectedOffset || node == nil {
		return moveToTextNode(view.PositionAt(parent, viewOffset))
	}
	return m.FindPositionIn(node, expectedOffset-(modelOffset-m.GetModelLength(node)))
}

// moveToTextNode moves a position between a text node and an element into
// the text node.
func moveToTextNode(pos view.Position) view.Position {
	if before := pos.NodeBefore(); before != nil && before.IsText() {
		return view.PositionAt(before, utf8.RuneCountInString(before.Text))
	}
	if after := pos.NodeAfter(); after != nil && after.IsText() {
		return view.PositionAt(after, 0)
	}
	return pos
}

// ToViewPosition translates a model position to the view. The result is
// unset when no hook could map it.
func (m *Mapper) ToViewPosition(pos model.Position) view.Position {
	return m.toViewPosition(&ModelToViewData{Mapper: m, ModelPosition: pos})
}

// ToPhantomViewPosition translates a model position that has no
// counterpart in the view anymore.
func (m *Mapper) ToPhantomViewPosition(pos model.Position) view.Position {
	return m.toViewPosition(&ModelToViewData{Mapper: m, ModelPosition: pos, IsPhantom: true})
}

func (m *Mapper) toViewPosition(data *ModelToViewData) view.Position {
	for _, hook := range m.toView {
		if hook.Match != nil && !hook.Match(data) {
			continue
		}
		hook.Handle(data)
		if data.ViewPosition.IsSet() {
			break
		}
	}
	return data.ViewPosition
}

// ToModelPosition translates a view position to the model.
func (m *Mapper) ToModelPosition(pos view.Position) model.Position {
	data := &ViewToModelData{Mapper: m, ViewPosition: pos}
	for _, hook := range m.toModel {
		if hook.Match != nil && !hook.Match(data) {
			continue
		}
		hook.Handle(data)
		if data.ModelPosition.IsSet() {
			break
		}
	}
	return data.ModelPosition
}

func (m *Mapper) defaultToView(data *ModelToViewData) {
	container := m.modelToView[data.ModelPosition.Parent]
	if container == nil {
		return
	}
	data.ViewPosition = m.FindPositionIn(container, data.ModelPosition.Offset)
}

func (m *Mapper) defaultToModel(data *ViewToModelData) {
	block := m.FindMappedViewAncestor(data.ViewPosition)
	if block == nil {
		return
	}
	parent := m.viewToModel[block]
	offset := m.toModelOffset(data.ViewPosition.Parent, data.ViewPosition.Offset, block)
	data.ModelPosition = model.PositionAt(parent, offset)
}

// toModelOffset computes the model offset, counted from the start of block,
// of the view offset in parent.
func (m *Mapper) toModelOffset(parent *view.Node, offset int, block *view.Node) int {
	if block != parent {
		return m.toModelOffset(parent.Parent(), parent.Index(), block) + m.toModelOffset(parent, offset, parent)
	}
	if parent.IsText() {
		return offset
	}
	modelOffset := 0
	for i := 0; i < offset; i++ {
		modelOffset += m.GetModelLength(parent.Child(i))
	}
	return modelOffset
}
