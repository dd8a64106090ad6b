package mockserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testResponses() *Responses {
	return NewResponses(ResponseFile{
		Commands: map[string]string{
			"Get Name":  "Test Server",
			"Get Slots": "1/10",
		},
		Prefixes: map[string]string{
			"Kick":              "kicked {args}",
			"Kick All":          "everyone",
			"Get ObjectiveRow_": "row {args}",
		},
	})
}

func TestResponses_Lookup(t *testing.T) {
	r := testResponses()

	tests := []struct {
		name      string
		cmd       string
		wantReply string
		wantVerb  string
		wantOK    bool
	}{
		{"exact", "Get Name", "Test Server", "Get Name", true},
		{"case insensitive", "GET NAME", "Test Server", "Get Name", true},
		{"extra whitespace", "  Get    Slots ", "1/10", "Get Slots", true},
		{"prefix with args", "Kick Bob reason", "kicked Bob reason", "Kick", true},
		{"prefix alone", "Kick", "kicked ", "Kick", true},
		{"longest prefix wins", "kick all now", "everyone", "Kick All", true},
		{"underscore prefix mid-word", "Get ObjectiveRow_2", "row 2", "Get ObjectiveRow_", true},
		{"word boundary", "Kicker Bob", "", "", false},
		{"unknown", "Nope", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, verb, ok := r.Lookup(tt.cmd)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.cmd, ok, tt.wantOK)
			}
			if reply != tt.wantReply {
				t.Errorf("Lookup(%q) reply = %q, want %q", tt.cmd, reply, tt.wantReply)
			}
			if verb != tt.wantVerb {
				t.Errorf("Lookup(%q) verb = %q, want %q", tt.cmd, verb, tt.wantVerb)
			}
		})
	}
}

func TestResponses_Len(t *testing.T) {
	if got := testResponses().Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
	var empty Responses
	if got := empty.Len(); got != 0 {
		t.Errorf("zero Responses Len() = %d", got)
	}
	if _, _, ok := empty.Lookup("Get Name"); ok {
		t.Error("zero Responses should not match")
	}
}

func TestDefaultResponses(t *testing.T) {
	r := DefaultResponses()

	for _, cmd := range []string{
		"Get Name",
		"Get GameState",
		"PlayerInfo Alice",
		"PardonPermaPan 76561190000000001",
		"ShowLog 5",
	} {
		if _, _, ok := r.Lookup(cmd); !ok {
			t.Errorf("default table has no reply for %q", cmd)
		}
	}

	reply, _, _ := r.Lookup("PlayerInfo Alice")
	if !strings.HasPrefix(reply, "Name: Alice\n") {
		t.Errorf("PlayerInfo reply = %q", reply)
	}
}

func writeResponses(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoadResponses(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "commands:\n  Get Name: From File\nprefixes:\n  Say: ok\n", false},
		{"prefixes only", "prefixes:\n  Say: ok\n", false},
		{"empty", "other: 1\n", true},
		{"invalid yaml", "commands: [\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			writeResponses(t, path, tt.content)

			r, err := LoadResponses(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadResponses() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Len() == 0 {
				t.Error("loaded table is empty")
			}
		})
	}

	if _, err := LoadResponses(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadResponses() on a missing file should fail")
	}
}

func TestResponses_ReloadKeepsTableOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.yaml")
	writeResponses(t, path, "commands:\n  Get Name: First\n")

	r, err := LoadResponses(path)
	if err != nil {
		t.Fatalf("LoadResponses() error = %v", err)
	}

	writeResponses(t, path, "commands: [\n")
	if err := r.Reload(path); err == nil {
		t.Fatal("Reload() of invalid YAML should fail")
	}
	if reply, _, _ := r.Lookup("Get Name"); reply != "First" {
		t.Errorf("reply after failed reload = %q, want First", reply)
	}

	writeResponses(t, path, "commands:\n  Get Name: Second\n")
	if err := r.Reload(path); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if reply, _, _ := r.Lookup("Get Name"); reply != "Second" {
		t.Errorf("reply after reload = %q, want Second", reply)
	}
}

func TestResponses_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.yaml")
	writeResponses(t, path, "commands:\n  Get Name: Before\n")

	r, err := LoadResponses(path)
	if err != nil {
		t.Fatalf("LoadResponses() error = %v", err)
	}
	w, err := r.Watch(path, quietLogger(t))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Stop()

	writeResponses(t, path, "commands:\n  Get Name: After\n")
	eventually(t, func() bool {
		reply, _, _ := r.Lookup("Get Name")
		return reply == "After"
	}, "table was not reloaded after the file changed")
}

func TestServer_UsesCustomResponses(t *testing.T) {
	srv := startServer(t, nil, testResponses())
	c := dialRaw(t, srv)

	c.send("Login " + testPassword)
	if got := c.send("Get Name"); got != "Test Server" {
		t.Errorf("reply = %q, want Test Server", got)
	}
	if got := c.send("Get GameState"); got != ReplyFail {
		t.Errorf("reply = %q, want FAIL for a command outside the table", got)
	}
}
