// Package key describes key presses and maps keystrokes such as "Shift+Tab"
// to handlers.
package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key represents a keyboard key. For character keys, use KeyRune and set the
// Rune field of the Event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = map[Key]string{
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
}

var keyAliases = map[string]Key{
	"esc":        KeyEscape,
	"escape":     KeyEscape,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"tab":        KeyTab,
	"backspace":  KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
}

// String returns the name of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key.
	ModAlt

	// ModMeta indicates the Meta key.
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Event represents a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// IsChar returns true for a character typed without Ctrl, Alt or Meta.
func (e Event) IsChar() bool {
	return e.Key == KeyRune && e.Rune != 0 && !e.Modifiers.Has(ModCtrl|ModAlt|ModMeta)
}

// Matches reports whether both events are the same keystroke.
func (e Event) Matches(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns a keystroke such as "Ctrl+Shift+Tab".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if e.Modifiers.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if e.Modifiers.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	if e.Modifiers.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if e.Key == KeyRune {
		parts = append(parts, string(e.Rune))
	} else {
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a keystroke such as "Tab", "Shift+Tab" or "Ctrl+B".
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	parts := strings.Split(spec, "+")
	var ev Event
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "shift":
			ev.Modifiers |= ModShift
		case "ctrl", "control":
			ev.Modifiers |= ModCtrl
		case "alt":
			ev.Modifiers |= ModAlt
		case "meta", "cmd":
			ev.Modifiers |= ModMeta
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, part)
		}
	}
	name := strings.TrimSpace(parts[len(parts)-1])
	if k, ok := keyAliases[strings.ToLower(name)]; ok {
		ev.Key = k
		return ev, nil
	}
	if utf8.RuneCountInString(name) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
	}
	r, _ := utf8.DecodeRuneInString(name)
	ev.Key, ev.Rune = KeyRune, r
	return ev, nil
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return ev
}
