// Package editor ties the model, the view and the features together. An
// Editor owns the document, renders every committed change into the view,
// routes key presses through keystrokes and view events, and runs commands.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/config"
	"github.com/cozy/prosemirror-lists/conversion"
	"github.com/cozy/prosemirror-lists/key"
	"github.com/cozy/prosemirror-lists/model"
	"github.com/cozy/prosemirror-lists/schema/basic"
	"github.com/cozy/prosemirror-lists/transform"
	"github.com/cozy/prosemirror-lists/view"
)

// Plugin is a feature of the editor.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string
	// Init registers the schema, converters, commands and listeners of the
	// feature.
	Init(e *Editor) error
}

// AfterIniter is implemented by plugins which need to see what the other
// plugins registered, such as commands to extend.
type AfterIniter interface {
	AfterInit(e *Editor) error
}

// Option configures an editor.
type Option func(*Editor)

// WithConfig sets the configuration. The default one is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) { e.Config = cfg }
}

// WithLogger sets the logger. Editors log nothing by default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) { e.Logger = logger }
}

// WithPlugins adds plugins, initialized in the given order.
func WithPlugins(plugins ...Plugin) Option {
	return func(e *Editor) { e.plugins = append(e.plugins, plugins...) }
}

// Editor is an editing session on one document.
type Editor struct {
	Config *config.Config
	Logger *zap.Logger

	Schema     *model.Schema
	Doc        *model.Document
	Model      *transform.Model
	View       *view.Document
	Mapper     *conversion.Mapper
	Conversion *conversion.Dispatcher
	Commands   *command.Registry
	Keystrokes *key.Keystrokes

	plugins []Plugin
}

// New creates an editor with an empty document.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		Config: config.Default(),
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := config.Validate(e.Config); err != nil {
		return nil, err
	}

	e.Schema = basic.NewSchema()
	e.Doc = model.NewDocument(e.Schema)
	e.Model = transform.NewModel(e.Doc)
	e.View = view.NewDocument()
	e.Mapper = conversion.NewMapper()
	e.Mapper.Bind(e.Doc.Root, e.View.Root)
	e.Conversion = conversion.NewDispatcher(e.Mapper, e.View, e.Logger.Named("conversion"))
	basic.AddConverters(e.Conversion)
	e.Commands = command.NewRegistry()
	e.Keystrokes = key.NewKeystrokes()

	e.Model.OnChange(func(changes []model.DiffItem) {
		e.Logger.Debug("converting changes", zap.Int("count", len(changes)))
		e.Conversion.ConvertChanges(changes)
	})

	for _, p := range e.plugins {
		if err := p.Init(e); err != nil {
			return nil, fmt.Errorf("initializing %s: %w", p.Name(), err)
		}
	}
	for _, p := range e.plugins {
		if a, ok := p.(AfterIniter); ok {
			if err := a.AfterInit(e); err != nil {
				return nil, fmt.Errorf("initializing %s: %w", p.Name(), err)
			}
		}
	}
	return e, nil
}

// Load creates an editor configured from a file and the environment, as
// read by config.Load, with the logger the configuration describes. Options
// are applied after the loaded ones.
func Load(path string, opts ...Option) (*Editor, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return New(append([]Option{WithConfig(cfg), WithLogger(logger)}, opts...)...)
}

// Execute executes a command by name.
func (e *Editor) Execute(name string, args ...interface{}) error {
	return e.Commands.Execute(name, args...)
}

// Change runs fn in a batch. See transform.Model.Change.
func (e *Editor) Change(fn func(w *transform.Writer) error) error {
	return e.Model.Change(fn)
}

// SetData replaces the content of the document and puts the caret at the
// start of the first block.
func (e *Editor) SetData(blocks ...*model.Node) error {
	return e.Change(func(w *transform.Writer) error {
		for e.Doc.Root.ChildCount() > 0 {
			if err := w.Remove(e.Doc.Root.Child(0)); err != nil {
				return err
			}
		}
		for _, block := range blocks {
			if err := w.Append(block, e.Doc.Root); err != nil {
				return err
			}
		}
		if len(blocks) > 0 {
			w.SetSelection(model.PositionAt(blocks[0], 0))
		}
		return nil
	})
}

// GetData renders the view as HTML.
func (e *Editor) GetData() (string, error) {
	return view.Render(e.View.Root)
}

// Select moves the selection.
func (e *Editor) Select(anchor model.Position, focus ...model.Position) {
	e.Doc.Selection = model.NewSelection(anchor, focus...)
}
