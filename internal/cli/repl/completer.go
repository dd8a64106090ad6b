package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the console. It satisfies
// readline.AutoCompleter.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the command reference.
func NewCompleter() *Completer {
	seen := make(map[string]struct{})
	var cmds []string
	for _, c := range catalog {
		name := c.Name
		// "Get ObjectiveRow_[0-4]" completes to the stem.
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if _, ok := seen[strings.ToLower(name)]; ok {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		cmds = append(cmds, name)
	}
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, case-insensitively.
func (c *Completer) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), lower) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Do implements readline.AutoCompleter. It returns the remaining text of
// every matching command and the length of the typed prefix.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	prefix := string(line[:pos])
	if strings.TrimSpace(prefix) == "" {
		return nil, 0
	}

	n := len([]rune(prefix))
	var out [][]rune
	for _, s := range c.Complete(prefix) {
		rest := []rune(s)[n:]
		out = append(out, append(rest, ' '))
	}
	return out, n
}
