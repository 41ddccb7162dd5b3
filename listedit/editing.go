// Package listedit is the list feature of the editor. Lists are not elements
// of the model: any block carrying the list attributes is a list item, and
// this package renders runs of such blocks as nested ul/ol/li elements,
// keeps positions mapped through them, and provides the list commands and
// key behaviours.
package listedit

import (
	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/editor"
	"github.com/cozy/prosemirror-lists/schema/list"
	"github.com/cozy/prosemirror-lists/view"
)

// Names of the commands registered by the plugin.
const (
	NumberedList = "numberedList"
	BulletedList = "bulletedList"
	IndentList   = "indentList"
	OutdentList  = "outdentList"
)

// ListEditing is the plugin handling creating, editing and removing lists
// and list items.
type ListEditing struct {
	editor *editor.Editor
	logger *zap.Logger
}

// New creates the plugin.
func New() *ListEditing {
	return &ListEditing{}
}

// Name implements editor.Plugin.
func (p *ListEditing) Name() string {
	return "ListEditing"
}

// Init implements editor.Plugin.
func (p *ListEditing) Init(e *editor.Editor) error {
	p.editor = e
	p.logger = e.Logger.Named(p.Name())

	if err := list.AddListAttributes(e.Schema); err != nil {
		return err
	}

	for _, name := range []string{"li", "ul", "ol"} {
		e.Mapper.RegisterViewToModelLength(name, viewListItemLength)
	}
	e.Mapper.RegisterModelToViewHook(&conversion.ModelToViewHook{
		Priority: view.PriorityNormal,
		Match:    notPhantom,
		Handle:   modelToViewPosition,
	})

	conv := &converters{logger: p.logger}
	e.Conversion.RangeToStructure(conv.triggerBy, conv.buildView, view.PriorityNormal)

	e.Model.RegisterPostFixer(fixIndents)

	commands := map[string]command.Command{
		NumberedList: NewListCommand(e, list.Numbered),
		BulletedList: NewListCommand(e, list.Bulleted),
		IndentList:   NewIndentCommand(e, Forward),
		OutdentList:  NewIndentCommand(e, Backward),
	}
	for _, name := range []string{NumberedList, BulletedList, IndentList, OutdentList} {
		if err := e.Commands.Add(name, commands[name]); err != nil {
			return err
		}
	}

	e.View.Listen(view.EventEnter, p.onEnter, view.WithContext("li"))
	e.View.Listen(view.EventDelete, p.onDelete, view.WithContext("li"))

	if err := e.Keystrokes.Set("Tab", p.keystrokeExecuter(IndentList)); err != nil {
		return err
	}
	return e.Keystrokes.Set("Shift+Tab", p.keystrokeExecuter(OutdentList))
}

// AfterInit registers the list commands into the generic indent and outdent
// commands, when they exist.
func (p *ListEditing) AfterInit(e *editor.Editor) error {
	if indent, ok := e.Commands.Get("indent").(command.ChildRegistrar); ok {
		indent.RegisterChildCommand(e.Commands.Get(IndentList))
	}
	if outdent, ok := e.Commands.Get("outdent").(command.ChildRegistrar); ok {
		outdent.RegisterChildCommand(e.Commands.Get(OutdentList))
	}
	return nil
}

var (
	_ editor.Plugin      = (*ListEditing)(nil)
	_ editor.AfterIniter = (*ListEditing)(nil)
)
