package repl

import (
	"bytes"
	"strings"
	"testing"
)

func TestCommands_ReturnsCopy(t *testing.T) {
	cmds := Commands()
	if len(cmds) != len(catalog) {
		t.Fatalf("len = %d, want %d", len(cmds), len(catalog))
	}
	cmds[0].Name = "changed"
	if catalog[0].Name == "changed" {
		t.Error("Commands() should not expose the catalog")
	}
}

func TestCommands_SectionsKnown(t *testing.T) {
	known := make(map[string]bool)
	for _, s := range sections {
		known[s] = true
	}
	for _, c := range catalog {
		if !known[c.Section] {
			t.Errorf("%s has unknown section %q", c.Name, c.Section)
		}
	}
}

func TestCommandInfo_Usage(t *testing.T) {
	tests := []struct {
		info CommandInfo
		want string
	}{
		{CommandInfo{Name: "Get Name"}, "Get Name"},
		{CommandInfo{Name: "Kick", Args: `<"player"> ["reason"]`}, `Kick <"player"> ["reason"]`},
	}

	for _, tt := range tests {
		if got := tt.info.Usage(); got != tt.want {
			t.Errorf("Usage() = %q, want %q", got, tt.want)
		}
	}
}

func TestFilterCommands(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		contains []string
		excludes []string
	}{
		{"empty returns all", "", []string{"Login", "exit"}, nil},
		{"by name", "vip", []string{"Get VipIds", "VipAdd", "VipDel", "SetNumVipSlots"}, []string{"Kick"}},
		{"by section", "MODERATION", []string{"Kick", "PardonPermaPan"}, []string{"Get Map"}},
		{"by description", "rotation", []string{"RotAdd", "RotList", "Get MapsForRotation"}, []string{"Get Players"}},
		{"trimmed", "  kick  ", []string{"Kick"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := make(map[string]bool)
			for _, c := range FilterCommands(tt.filter) {
				names[c.Name] = true
			}
			for _, want := range tt.contains {
				if !names[want] {
					t.Errorf("FilterCommands(%q) missing %s", tt.filter, want)
				}
			}
			for _, bad := range tt.excludes {
				if names[bad] {
					t.Errorf("FilterCommands(%q) should not include %s", tt.filter, bad)
				}
			}
		})
	}

	if got := FilterCommands("no-such-command"); len(got) != 0 {
		t.Errorf("unexpected match: %v", got)
	}
}

func TestWriteHelp(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHelp(&buf, ""); err != nil {
		t.Fatalf("WriteHelp() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "Available Commands (case-insensitive):\n") {
		t.Errorf("missing heading:\n%s", out)
	}
	for _, section := range sections {
		if !strings.Contains(out, "  "+section+":\n") {
			t.Errorf("missing section %s", section)
		}
	}
	if strings.Index(out, "General:") > strings.Index(out, "Extra:") {
		t.Error("sections out of order")
	}
}

func TestWriteHelp_Filter(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHelp(&buf, "profanity"); err != nil {
		t.Fatalf("WriteHelp() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "BanProfanity <words>") || !strings.Contains(out, "UnbanProfanity <words>") {
		t.Errorf("filtered help missing profanity commands:\n%s", out)
	}
	if strings.Contains(out, "Players:") {
		t.Error("empty sections should be omitted")
	}

	buf.Reset()
	if err := WriteHelp(&buf, "nothing-here"); err != nil {
		t.Fatalf("WriteHelp() error = %v", err)
	}
	if got := buf.String(); got != "No commands match \"nothing-here\".\n" {
		t.Errorf("got %q", got)
	}
}
