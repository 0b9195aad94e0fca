// Package completers holds the fixed sources of command names known to the
// completion engine.
package completers

import (
	"strings"
)

// BuiltinCommand represents a built-in command with its help text.
type BuiltinCommand struct {
	Name        string
	Usage       string
	Description string
}

// builtinCommands is the built-in command set, in completion order.
var builtinCommands = []BuiltinCommand{
	{Name: "help", Usage: "help [name]", Description: "Show help for built-in commands"},
	{Name: "exit", Usage: "exit [code]", Description: "Exit the shell"},
	{Name: "run", Usage: "run <script> [args...]", Description: "Run a shell script in the current session"},
	{Name: "status", Usage: "status", Description: "Show the last exit status and the effective configuration"},
	{Name: "type", Usage: "type <name>...", Description: "Describe how a name would be resolved"},
	{Name: "history", Usage: "history [n | -c]", Description: "List recent commands, or clear the history"},
}

// BuiltinCompleter exposes the built-in command set. The set is fixed for
// the lifetime of the process.
type BuiltinCompleter struct {
	commands []BuiltinCommand
}

// NewBuiltinCompleter creates a new BuiltinCompleter with the default commands.
func NewBuiltinCompleter() *BuiltinCompleter {
	return &BuiltinCompleter{commands: builtinCommands}
}

// Names returns the built-in command names in their fixed order.
func (c *BuiltinCompleter) Names() []string {
	names := make([]string, len(c.commands))
	for i, cmd := range c.commands {
		names[i] = cmd.Name
	}
	return names
}

// Lookup finds a built-in command by exact name.
func (c *BuiltinCompleter) Lookup(name string) (BuiltinCommand, bool) {
	for _, cmd := range c.commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return BuiltinCommand{}, false
}

// GetHelp returns help information for a built-in command. An empty name
// yields the general help; an unknown name yields "".
func (c *BuiltinCompleter) GetHelp(name string) string {
	if name == "" {
		return c.GeneralHelp()
	}
	cmd, ok := c.Lookup(name)
	if !ok {
		return ""
	}
	return cmd.Usage + " - " + cmd.Description
}

// GeneralHelp lists every built-in command with its description.
func (c *BuiltinCompleter) GeneralHelp() string {
	width := 0
	for _, cmd := range c.commands {
		width = max(width, len(cmd.Usage))
	}

	lines := []string{"Built-in commands:"}
	for _, cmd := range c.commands {
		lines = append(lines, "  "+cmd.Usage+strings.Repeat(" ", width-len(cmd.Usage))+"  "+cmd.Description)
	}
	return strings.Join(lines, "\n")
}
