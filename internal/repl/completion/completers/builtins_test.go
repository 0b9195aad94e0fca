package completers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinNamesOrder(t *testing.T) {
	c := NewBuiltinCompleter()
	assert.Equal(t, []string{"help", "exit", "run", "status", "type", "history"}, c.Names())
}

func TestBuiltinLookup(t *testing.T) {
	c := NewBuiltinCompleter()

	cmd, ok := c.Lookup("history")
	assert.True(t, ok)
	assert.Equal(t, "history [n | -c]", cmd.Usage)

	_, ok = c.Lookup("hist")
	assert.False(t, ok, "lookup is exact")
}

func TestBuiltinGetHelp(t *testing.T) {
	c := NewBuiltinCompleter()

	assert.Equal(t, "exit [code] - Exit the shell", c.GetHelp("exit"))
	assert.Empty(t, c.GetHelp("nope"))

	general := c.GetHelp("")
	assert.True(t, strings.HasPrefix(general, "Built-in commands:"))
	for _, name := range c.Names() {
		assert.Contains(t, general, "  "+name)
	}
}
