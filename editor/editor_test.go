package editor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cozy/prosemirror-lists/command"
	"github.com/cozy/prosemirror-lists/config"
	. "github.com/cozy/prosemirror-lists/editor"
	"github.com/cozy/prosemirror-lists/key"
	"github.com/cozy/prosemirror-lists/model"
	. "github.com/cozy/prosemirror-lists/test/builder"
)

type plugin struct {
	name  string
	calls *[]string
	err   error
}

func (p *plugin) Name() string { return p.name }

func (p *plugin) Init(e *Editor) error {
	*p.calls = append(*p.calls, "init "+p.name)
	return p.err
}

type afterPlugin struct {
	plugin
}

func (p *afterPlugin) AfterInit(e *Editor) error {
	*p.calls = append(*p.calls, "after "+p.name)
	return nil
}

func newEditor(t *testing.T, blocks ...*model.Node) *Editor {
	e, err := New(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NoError(t, e.SetData(blocks...))
	return e
}

func html(t *testing.T, e *Editor) string {
	out, err := e.GetData()
	require.NoError(t, err)
	return out
}

func press(t *testing.T, e *Editor, spec string) {
	require.NoError(t, e.Press(key.MustParse(spec)))
}

func TestNew(t *testing.T) {
	var calls []string
	e, err := New(WithPlugins(
		&afterPlugin{plugin{name: "a", calls: &calls}},
		&plugin{name: "b", calls: &calls},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"init a", "init b", "after a"}, calls)
	assert.Equal(t, 8, e.Config.List.MaxIndent)

	failure := errors.New("boom")
	_, err = New(WithPlugins(&plugin{name: "broken", calls: &calls, err: failure}))
	assert.True(t, errors.Is(err, failure))
	assert.Contains(t, err.Error(), "broken")

	cfg := config.Default()
	cfg.List.MaxIndent = 0
	_, err = New(WithConfig(cfg))
	assert.Error(t, err)

	e, err = New()
	require.NoError(t, err)
	assert.True(t, errors.Is(e.Execute("missing"), command.ErrUnknownCommand))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listedit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"list": {"maxIndent": 3}, "logging": {"level": "debug"}}`), 0o600))

	var calls []string
	e, err := Load(path, WithPlugins(&plugin{name: "a", calls: &calls}))
	require.NoError(t, err)
	assert.Equal(t, 3, e.Config.List.MaxIndent)
	assert.True(t, e.Logger.Core().Enabled(zap.DebugLevel))
	assert.Equal(t, []string{"init a"}, calls)

	// options win over the loaded ones
	e, err = Load(path, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.False(t, e.Logger.Core().Enabled(zap.DebugLevel))

	require.NoError(t, os.WriteFile(path, []byte(`{"list": {"maxIndent": 99}}`), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSetData(t *testing.T) {
	e := newEditor(t, P("foo"), H(2, "title"))
	assert.Equal(t, `<p>foo</p><h2>title</h2>`, html(t, e))
	assert.Equal(t, model.PositionAt(e.Doc.Root.Child(0), 0), e.Doc.Selection.Anchor)

	require.NoError(t, e.SetData(Pre("x")))
	assert.Equal(t, `<pre><code>x</code></pre>`, html(t, e))
	assert.Equal(t, 1, e.Doc.Root.ChildCount())
}

func TestTyping(t *testing.T) {
	e := newEditor(t, P("foo"))
	e.Select(model.PositionAt(e.Doc.Root.Child(0), 3))
	press(t, e, "!")
	require.NoError(t, e.Type("?"))
	assert.Equal(t, `<p>foo!?</p>`, html(t, e))

	// no block at the selection
	e.Select(model.PositionAt(e.Doc.Root, 1))
	require.NoError(t, e.Type("x"))
	assert.Equal(t, `<p>foo!?</p>`, html(t, e))
}

func TestEnter(t *testing.T) {
	e := newEditor(t, P("foobar"))
	root := e.Doc.Root
	e.Select(model.PositionAt(root.Child(0), 3))

	press(t, e, "Enter")
	assert.Equal(t, `<p>foo</p><p>bar</p>`, html(t, e))
	assert.Equal(t, model.PositionAt(root.Child(1), 0), e.Doc.Selection.Anchor)

	press(t, e, "Shift+Enter")
	assert.Equal(t, "\nbar", root.Child(1).TextContent())
	assert.Equal(t, 2, root.ChildCount())
}

func TestDelete(t *testing.T) {
	e := newEditor(t, P("foo"), P("bar"))
	root := e.Doc.Root

	e.Select(model.PositionAt(root.Child(1), 0))
	press(t, e, "Backspace")
	assert.Equal(t, `<p>foobar</p>`, html(t, e))
	assert.Equal(t, model.PositionAt(root.Child(0), 3), e.Doc.Selection.Anchor)

	press(t, e, "Delete")
	assert.Equal(t, `<p>fooar</p>`, html(t, e))
	assert.Equal(t, model.PositionAt(root.Child(0), 3), e.Doc.Selection.Anchor)

	// nothing before the first block
	e.Select(model.PositionAt(root.Child(0), 0))
	press(t, e, "Backspace")
	assert.Equal(t, `<p>fooar</p>`, html(t, e))

	// a range selection is left alone
	e.Select(model.PositionAt(root.Child(0), 0), model.PositionAt(root.Child(0), 2))
	press(t, e, "Backspace")
	assert.Equal(t, `<p>fooar</p>`, html(t, e))
}

func TestKeystrokesGoFirst(t *testing.T) {
	e := newEditor(t, P("foo"))
	var pressed []string
	require.NoError(t, e.Keystrokes.Set("Enter", func(ev key.Event, cancel func()) {
		pressed = append(pressed, ev.String())
		cancel()
	}))
	e.Select(model.PositionAt(e.Doc.Root.Child(0), 1))
	press(t, e, "Enter")
	assert.Equal(t, []string{"Enter"}, pressed)
	assert.Equal(t, `<p>foo</p>`, html(t, e))
}
