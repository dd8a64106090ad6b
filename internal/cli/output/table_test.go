package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

func TestTableFormatter_Format_Table(t *testing.T) {
	table := &Table{}
	table.SetHeaders("NAME", "VALUE")
	table.AddRow("key1", "value1")
	table.AddRow("longer-key", "v")

	tests := []struct {
		name      string
		data      any
		noHeaders bool
		want      string
	}{
		{"pointer", table, false, "NAME        VALUE\nkey1        value1\nlonger-key  v\n"},
		{"value", *table, false, "NAME        VALUE\nkey1        value1\nlonger-key  v\n"},
		{"no headers", table, true, "key1        value1\nlonger-key  v\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := &TableFormatter{NoHeaders: tt.noHeaders}
			if err := f.Format(&buf, tt.data); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Format() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestTableFormatter_Format_Exchanges(t *testing.T) {
	exchanges := []*domain.CommandExchange{
		sampleExchange(),
		{Request: "Get Players", ResponseText: "2\tAlice\tBob"},
		{Request: "Get GameState", ResponseText: "Players: 6\nMap: foy\n"},
		nil,
	}

	t.Run("narrow", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, exchanges); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) != 4 {
			t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), out)
		}
		if !strings.HasPrefix(lines[0], "REQUEST") || !strings.Contains(lines[0], "RESPONSE") {
			t.Errorf("header = %q", lines[0])
		}
		if strings.Contains(lines[0], "SESSION_ID") || strings.Contains(out, "bytes") {
			t.Errorf("wide and hidden columns shown:\n%s", out)
		}
		if !strings.Contains(out, "2, Alice, Bob") {
			t.Errorf("tabs not flattened:\n%s", out)
		}
		if !strings.Contains(out, "Players: 6 | Map: foy") {
			t.Errorf("newlines not flattened:\n%s", out)
		}
	})

	t.Run("wide", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{Wide: true}).Format(&buf, exchanges[:1]); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"SESSION_ID", "DURATION", "rcs-01hx", "1.5s"} {
			if !strings.Contains(out, want) {
				t.Errorf("wide output missing %q:\n%s", want, out)
			}
		}
	})
}

func TestTableFormatter_Format_Map(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"zeta": 1, "alpha": 2}
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "alpha") || !strings.HasPrefix(lines[2], "zeta") {
		t.Errorf("map rows not sorted:\n%s", buf.String())
	}
}

func TestTableFormatter_Format_SingleStruct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, sampleExchange()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "FIELD") || !strings.Contains(out, "request") {
		t.Errorf("output = %q", out)
	}
}

func TestTableFormatter_Format_Scalars(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []string{"a", "b"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "VALUE\na\nb\n" {
		t.Errorf("Format() = %q", buf.String())
	}

	if err := (&TableFormatter{}).Format(&buf, make(chan int)); err == nil {
		t.Error("Format(chan) should fail")
	}
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Errorf("Format(nil) error = %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	s := "pointer"
	var nilPtr *string

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello", "hello"},
		{"empty string", "", "-"},
		{"tabs", "a\tb", "a, b"},
		{"int", 42, "42"},
		{"uint", uint(99), "99"},
		{"float64", 3.14159, "3.14"},
		{"bool", true, "true"},
		{"bytes", []byte("abc"), "3 bytes"},
		{"empty slice", []int{}, "-"},
		{"slice", []int{1, 2, 3}, "[3 items]"},
		{"map", map[string]int{"a": 1}, "{1 keys}"},
		{"duration", 1234567 * time.Nanosecond, "1.235ms"},
		{"time", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02 03:04:05"},
		{"zero time", time.Time{}, "-"},
		{"pointer", &s, "pointer"},
		{"nil pointer", nilPtr, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tt.input)); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if got := formatValue(reflect.Value{}); got != "" {
		t.Errorf("formatValue(invalid) = %q", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "Name"},
		{"SessionID", "Session_I_D"},
		{"session_id", "session_id"},
	}

	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
