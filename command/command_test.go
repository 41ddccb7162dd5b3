package command_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/cozy/prosemirror-lists/command"
)

type fakeCommand struct {
	enabled bool
	calls   int
	err     error
}

func (c *fakeCommand) IsEnabled() bool    { return c.enabled }
func (c *fakeCommand) Value() interface{} { return c.calls }
func (c *fakeCommand) Execute(args ...interface{}) error {
	c.calls++
	return c.err
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	enabled := &fakeCommand{enabled: true}
	disabled := &fakeCommand{}
	require.NoError(t, r.Add("b", enabled))
	require.NoError(t, r.Add("a", disabled))

	err := r.Add("a", enabled)
	assert.True(t, errors.Is(err, ErrDuplicateCommand))
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Same(t, enabled, r.Get("b"))
	assert.Nil(t, r.Get("c"))

	assert.NoError(t, r.Execute("b"))
	assert.Equal(t, 1, enabled.calls)

	// disabled commands are not executed
	assert.NoError(t, r.Execute("a"))
	assert.Zero(t, disabled.calls)

	err = r.Execute("c")
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	failure := errors.New("boom")
	enabled.err = failure
	assert.Same(t, failure, r.Execute("b"))
}

func TestMultiCommand(t *testing.T) {
	multi := NewMultiCommand()
	assert.False(t, multi.IsEnabled())
	assert.Nil(t, multi.Value())
	assert.NoError(t, multi.Execute())

	first := &fakeCommand{}
	second := &fakeCommand{enabled: true}
	third := &fakeCommand{enabled: true}
	multi.RegisterChildCommand(first)
	multi.RegisterChildCommand(nil)
	multi.RegisterChildCommand(second)
	multi.RegisterChildCommand(third)
	assert.True(t, multi.IsEnabled())

	// the first enabled child runs
	require.NoError(t, multi.Execute())
	assert.Zero(t, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls)

	first.enabled = true
	require.NoError(t, multi.Execute())
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	var registrar ChildRegistrar = multi
	assert.NotNil(t, registrar)
}
