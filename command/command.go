// Package command implements named editor commands: a registry executing
// commands by name and a composite command delegating to children.
package command

import (
	"errors"
	"fmt"
	"sort"
)

// Command errors.
var (
	// ErrUnknownCommand indicates no command is registered under a name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrDuplicateCommand indicates a name is already taken.
	ErrDuplicateCommand = errors.New("command: command already registered")
)

// Command is an action that can be executed on the editor.
type Command interface {
	// IsEnabled reports whether Execute would do anything in the current
	// state of the editor.
	IsEnabled() bool

	// Value is the state of the command for the current selection, for
	// instance whether the selection is already a list of that kind.
	Value() interface{}

	// Execute runs the command. Executing a disabled command is a no-op.
	Execute(args ...interface{}) error
}

// Registry holds the commands of an editor by name.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: map[string]Command{}}
}

// Add registers a command.
func (r *Registry) Add(name string, cmd Command) error {
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.commands[name] = cmd
	return nil
}

// Get returns the command registered under name, or nil.
func (r *Registry) Get(name string) Command {
	return r.commands[name]
}

// Execute executes the command registered under name.
func (r *Registry) Execute(name string, args ...interface{}) error {
	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !cmd.IsEnabled() {
		return nil
	}
	return cmd.Execute(args...)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
