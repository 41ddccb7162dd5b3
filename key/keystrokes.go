package key

// Handler handles a keystroke. Calling cancel marks the key press as
// handled: other handlers are skipped and the editor does not process it.
type Handler func(ev Event, cancel func())

type binding struct {
	keystroke Event
	handler   Handler
}

// Keystrokes maps keystrokes to handlers.
type Keystrokes struct {
	bindings []binding
}

// NewKeystrokes creates an empty keystroke handler.
func NewKeystrokes() *Keystrokes {
	return &Keystrokes{}
}

// Set binds a handler to a keystroke such as "Shift+Tab".
func (k *Keystrokes) Set(keystroke string, handler Handler) error {
	ev, err := Parse(keystroke)
	if err != nil {
		return err
	}
	k.bindings = append(k.bindings, binding{keystroke: ev, handler: handler})
	return nil
}

// Press calls the handlers bound to the event, most recently bound first,
// until one cancels it. It returns whether the event was cancelled.
func (k *Keystrokes) Press(ev Event) bool {
	cancelled := false
	cancel := func() { cancelled = true }
	for i := len(k.bindings) - 1; i >= 0; i-- {
		b := k.bindings[i]
		if !b.keystroke.Matches(ev) {
			continue
		}
		b.handler(ev, cancel)
		if cancelled {
			return true
		}
	}
	return false
}
