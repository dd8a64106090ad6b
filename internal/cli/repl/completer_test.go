package repl

import (
	"reflect"
	"testing"

	"github.com/chzyer/readline"
)

var _ readline.AutoCompleter = (*Completer)(nil)

func TestNewCompleter(t *testing.T) {
	c := NewCompleter()
	if c == nil {
		t.Fatal("NewCompleter returned nil")
	}
	if len(c.commands) == 0 {
		t.Error("commands should be initialized")
	}

	seen := make(map[string]bool)
	for _, cmd := range c.commands {
		if seen[cmd] {
			t.Errorf("duplicate completion %q", cmd)
		}
		seen[cmd] = true
	}
}

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{
			name:   "get m prefix",
			prefix: "Get M",
			want:   []string{"Get Map", "Get MapsForRotation", "Get MaxQueuedPlayers"},
		},
		{
			name:   "case-insensitive",
			prefix: "get m",
			want:   []string{"Get Map", "Get MapsForRotation", "Get MaxQueuedPlayers"},
		},
		{
			name:   "objective rows complete to stem",
			prefix: "get obj",
			want:   []string{"Get ObjectiveRow_"},
		},
		{
			name:   "pardon prefix",
			prefix: "pardon",
			want:   []string{"PardonPermaPan", "PardonTempBan"},
		},
		{
			name:   "local command",
			prefix: "ex",
			want:   []string{"exit"},
		},
		{
			name:   "no match",
			prefix: "xyz",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Complete_Setters(t *testing.T) {
	c := NewCompleter()

	got := c.Complete("set")
	if len(got) != 9 {
		t.Errorf("Complete(set) returned %d commands: %v", len(got), got)
	}
}

func TestCompleter_Do(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		name    string
		line    string
		pos     int
		want    []string
		wantLen int
	}{
		{"unique match", "get na", 6, []string{"me "}, 6},
		{"several matches", "Get Ma", 6, []string{"p ", "psForRotation ", "xQueuedPlayers "}, 6},
		{"cursor mid-line", "Get Nameless", 6, []string{"me "}, 6},
		{"pos past end", "RotL", 10, []string{"ist "}, 4},
		{"blank prefix", "  ", 2, nil, 0},
		{"no match", "zzz", 3, nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := c.Do([]rune(tt.line), tt.pos)
			if n != tt.wantLen {
				t.Errorf("Do() length = %d, want %d", n, tt.wantLen)
			}
			var strs []string
			for _, r := range got {
				strs = append(strs, string(r))
			}
			if !reflect.DeepEqual(strs, tt.want) {
				t.Errorf("Do() = %q, want %q", strs, tt.want)
			}
		})
	}
}
