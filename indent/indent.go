// Package indent provides the generic indent and outdent commands. They do
// nothing by themselves: features register their own indentation commands
// as children, and the first enabled child runs.
package indent

import (
	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/editor"
)

// Names of the commands.
const (
	Indent  = "indent"
	Outdent = "outdent"
)

// Plugin registers the indent and outdent commands.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements editor.Plugin.
func (p *Plugin) Name() string {
	return "Indent"
}

// Init implements editor.Plugin.
func (p *Plugin) Init(e *editor.Editor) error {
	if err := e.Commands.Add(Indent, command.NewMultiCommand()); err != nil {
		return err
	}
	return e.Commands.Add(Outdent, command.NewMultiCommand())
}

var _ editor.Plugin = (*Plugin)(nil)
