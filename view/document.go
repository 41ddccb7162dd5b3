package view

import (
	"sort"

	"github.com/google/uuid"
)

// Event names fired on the view document.
const (
	EventEnter  = "enter"
	EventDelete = "delete"
)

// Listener priorities. Listeners with a higher priority are called first.
const (
	PriorityLowest  = -100000
	PriorityLow     = -1000
	PriorityNormal  = 0
	PriorityHigh    = 1000
	PriorityHighest = 100000
)

// Direction of a delete event.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// EventData carries what the view knows about the user input.
type EventData struct {
	// The view node where the selection is, used to match listener contexts.
	Target *Node
	// For enter events, true for a soft break (Shift+Enter).
	IsSoft bool
	// For delete events.
	Direction Direction
}

// EventInfo is passed to the listeners of a fired event.
type EventInfo struct {
	Name string

	stopped   bool
	prevented bool
}

// Stop stops the propagation: listeners with a lower priority are not called.
func (e *EventInfo) Stop() {
	e.stopped = true
}

// Stopped reports whether Stop was called.
func (e *EventInfo) Stopped() bool {
	return e.stopped
}

// PreventDefault asks the emitter not to run its default behaviour.
func (e *EventInfo) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *EventInfo) DefaultPrevented() bool {
	return e.prevented
}

// Listener is a callback for a view event.
type Listener func(info *EventInfo, data *EventData)

// ListenOption configures a listener.
type ListenOption func(*subscription)

// WithPriority sets the priority of the listener.
func WithPriority(priority int) ListenOption {
	return func(s *subscription) { s.priority = priority }
}

// WithContext restricts the listener to events whose target is, or is inside,
// an element with the given name.
func WithContext(name string) ListenOption {
	return func(s *subscription) { s.context = name }
}

type subscription struct {
	id       string
	event    string
	priority int
	context  string
	seq      int
	fn       Listener
}

func (s *subscription) matches(target *Node) bool {
	if s.context == "" {
		return true
	}
	if target == nil {
		return false
	}
	return target.Is(s.context) || target.FindAncestor(s.context) != nil
}

// Document is the view document: the root of the render tree and the bus on
// which input events are fired.
type Document struct {
	Root *Node

	subs map[string][]*subscription
	seq  int
}

// NewDocument creates an empty view document.
func NewDocument() *Document {
	return &Document{Root: NewRoot(), subs: map[string][]*subscription{}}
}

// Listen registers a listener for the event and returns its id.
func (d *Document) Listen(event string, fn Listener, opts ...ListenOption) string {
	s := &subscription{id: uuid.NewString(), event: event, fn: fn, seq: d.seq}
	d.seq++
	for _, opt := range opts {
		opt(s)
	}
	subs := append(d.subs[event], s)
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].priority != subs[j].priority {
			return subs[i].priority > subs[j].priority
		}
		return subs[i].seq < subs[j].seq
	})
	d.subs[event] = subs
	return s.id
}

// StopListening removes the listener with the given id. It returns false
// when no such listener exists.
func (d *Document) StopListening(id string) bool {
	for event, subs := range d.subs {
		for i, s := range subs {
			if s.id == id {
				d.subs[event] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Fire calls the listeners of the event in priority order until one of them
// stops it.
func (d *Document) Fire(event string, data *EventData) *EventInfo {
	info := &EventInfo{Name: event}
	if data == nil {
		data = &EventData{}
	}
	for _, s := range append([]*subscription(nil), d.subs[event]...) {
		if !s.matches(data.Target) {
			continue
		}
		s.fn(info, data)
		if info.stopped {
			break
		}
	}
	return info
}
