package command

// ChildRegistrar is implemented by commands that other features extend.
type ChildRegistrar interface {
	RegisterChildCommand(child Command)
}

// MultiCommand is an outer command, such as "indent", that features extend
// by registering child commands. It executes the first enabled child.
type MultiCommand struct {
	children []Command
}

// NewMultiCommand creates a command without children.
func NewMultiCommand() *MultiCommand {
	return &MultiCommand{}
}

// RegisterChildCommand adds a child. Children are tried in registration
// order.
func (c *MultiCommand) RegisterChildCommand(child Command) {
	if child == nil {
		return
	}
	c.children = append(c.children, child)
}

// IsEnabled is true when one of the children is enabled.
func (c *MultiCommand) IsEnabled() bool {
	return c.firstEnabled() != nil
}

// Value is always nil.
func (c *MultiCommand) Value() interface{} {
	return nil
}

// Execute executes the first enabled child.
func (c *MultiCommand) Execute(args ...interface{}) error {
	child := c.firstEnabled()
	if child == nil {
		return nil
	}
	return child.Execute(args...)
}

func (c *MultiCommand) firstEnabled() Command {
	for _, child := range c.children {
		if child.IsEnabled() {
			return child
		}
	}
	return nil
}

var _ Command = (*MultiCommand)(nil)
