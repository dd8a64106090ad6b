package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

func sampleExchange() *domain.CommandExchange {
	return &domain.CommandExchange{
		SessionID:     "rcs-01hx",
		Request:       "Get Name",
		ResponseBytes: []byte("My <Server>"),
		ResponseText:  "My <Server>",
		Duration:      1500 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"TABLE", FormatTable, false},
		{" json ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		wide   bool
	}{
		{FormatText, false},
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatTable, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, tt.wide)
			if f == nil {
				t.Fatal("NewFormatter returned nil")
			}

			switch tt.format {
			case FormatJSON:
				if _, ok := f.(*JSONFormatter); !ok {
					t.Errorf("got %T, want JSONFormatter", f)
				}
			case FormatYAML:
				if _, ok := f.(*YAMLFormatter); !ok {
					t.Errorf("got %T, want YAMLFormatter", f)
				}
			case FormatTable:
				tf, ok := f.(*TableFormatter)
				if !ok {
					t.Fatalf("got %T, want TableFormatter", f)
				}
				if tf.Wide != tt.wide {
					t.Errorf("Wide = %v, want %v", tf.Wide, tt.wide)
				}
			default:
				if _, ok := f.(*TextFormatter); !ok {
					t.Errorf("got %T, want TextFormatter", f)
				}
			}
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	t.Run("exchange", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&JSONFormatter{}).Format(&buf, sampleExchange()); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{`"request": "Get Name"`, `"response": "My <Server>"`, `"session_id": "rcs-01hx"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %s:\n%s", want, out)
			}
		}
		if strings.Contains(out, "ResponseBytes") {
			t.Error("raw bytes should not be serialized")
		}
	})

	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&JSONFormatter{Compact: true}).Format(&buf, map[string]int{"a": 1}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if got := buf.String(); got != "{\"a\":1}\n" {
			t.Errorf("Format() = %q", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&JSONFormatter{}).Format(&buf, nil); err != nil {
			t.Fatalf("Format(nil) error = %v", err)
		}
		if strings.TrimSpace(buf.String()) != "null" {
			t.Errorf("Format(nil) = %q, want null", buf.String())
		}
	})
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, []*domain.CommandExchange{sampleExchange()}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d items", len(decoded))
	}
	if decoded[0]["request"] != "Get Name" || decoded[0]["response"] != "My <Server>" {
		t.Errorf("decoded = %v", decoded[0])
	}
	if !strings.Contains(buf.String(), "duration: 1.5s") {
		t.Errorf("duration not rendered as a string:\n%s", buf.String())
	}
}
