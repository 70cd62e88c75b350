package chat

import "strings"

// Completer suggests slash commands.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the loop's command set.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{"/help", "/status", "/quit", "/exit"},
	}
}

// Complete returns the commands sharing a prefix with the input.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) || strings.HasPrefix(prefix, cmd) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
