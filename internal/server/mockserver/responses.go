package mockserver

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/hllrcon-go/internal/infra/confloader"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

// ArgsPlaceholder in a prefix reply is replaced by the command arguments.
const ArgsPlaceholder = "{args}"

// ResponseFile is the YAML layout of a response table.
//
//	commands:
//	  Get Name: My Server
//	prefixes:
//	  PlayerInfo: "Name: {args}"
//
// An empty reply closes the connection, which clients see as an empty
// response.
type ResponseFile struct {
	// Commands match the whole command, case-insensitively.
	Commands map[string]string `koanf:"commands" yaml:"commands"`

	// Prefixes match the leading words of a command. The longest match wins.
	Prefixes map[string]string `koanf:"prefixes" yaml:"prefixes"`
}

type prefixEntry struct {
	prefix string
	verb   string
	reply  string
}

type responseTable struct {
	exact    map[string]string
	verbs    map[string]string
	prefixes []prefixEntry
}

// Responses is a concurrency-safe response table.
type Responses struct {
	table atomic.Pointer[responseTable]
}

// NewResponses builds a table from f.
func NewResponses(f ResponseFile) *Responses {
	r := &Responses{}
	r.Replace(f)
	return r
}

// DefaultResponses returns the built-in table.
func DefaultResponses() *Responses {
	return NewResponses(DefaultResponseFile())
}

//go:embed default_responses.yaml
var defaultResponsesYAML []byte

// DefaultResponseFile returns the built-in response definitions.
func DefaultResponseFile() ResponseFile {
	var f ResponseFile
	if err := yaml.Unmarshal(defaultResponsesYAML, &f); err != nil {
		panic("mockserver: invalid embedded responses: " + err.Error())
	}
	return f
}

// LoadResponses reads a response table from a YAML file.
func LoadResponses(path string) (*Responses, error) {
	f, err := readResponseFile(path)
	if err != nil {
		return nil, err
	}
	return NewResponses(f), nil
}

func readResponseFile(path string) (ResponseFile, error) {
	var f ResponseFile

	l := confloader.NewLoader()
	if err := l.LoadFile(path); err != nil {
		return f, err
	}
	if err := l.Unmarshal(&f); err != nil {
		return f, fmt.Errorf("parse responses %s: %w", path, err)
	}
	if len(f.Commands) == 0 && len(f.Prefixes) == 0 {
		return f, fmt.Errorf("responses %s: no commands or prefixes defined", path)
	}
	return f, nil
}

// Reload replaces the table with the content of path. On error the current
// table is kept.
func (r *Responses) Reload(path string) error {
	f, err := readResponseFile(path)
	if err != nil {
		return err
	}
	r.Replace(f)
	return nil
}

// Replace swaps in a new table atomically.
func (r *Responses) Replace(f ResponseFile) {
	t := &responseTable{
		exact: make(map[string]string, len(f.Commands)),
		verbs: make(map[string]string, len(f.Commands)),
	}
	for cmd, reply := range f.Commands {
		key := normalizeCommand(cmd)
		t.exact[key] = reply
		t.verbs[key] = strings.TrimSpace(cmd)
	}
	for prefix, reply := range f.Prefixes {
		t.prefixes = append(t.prefixes, prefixEntry{
			prefix: normalizeCommand(prefix),
			verb:   strings.TrimSpace(prefix),
			reply:  reply,
		})
	}
	sort.Slice(t.prefixes, func(i, j int) bool {
		if len(t.prefixes[i].prefix) != len(t.prefixes[j].prefix) {
			return len(t.prefixes[i].prefix) > len(t.prefixes[j].prefix)
		}
		return t.prefixes[i].prefix < t.prefixes[j].prefix
	})
	r.table.Store(t)
}

// Lookup finds the reply for cmd. verb is the matched table entry and
// serves as a bounded metric label.
func (r *Responses) Lookup(cmd string) (reply, verb string, ok bool) {
	t := r.table.Load()
	if t == nil {
		return "", "", false
	}

	collapsed := strings.Join(strings.Fields(cmd), " ")
	key := strings.ToLower(collapsed)
	if reply, ok := t.exact[key]; ok {
		return reply, t.verbs[key], true
	}

	for _, p := range t.prefixes {
		n := len(p.prefix)
		if len(collapsed) < n || !strings.EqualFold(collapsed[:n], p.prefix) {
			continue
		}
		rest := collapsed[n:]
		// Whole-word match unless the prefix ends in '_' (e.g. ObjectiveRow_).
		if rest != "" && !strings.HasSuffix(p.prefix, "_") && rest[0] != ' ' {
			continue
		}
		return strings.ReplaceAll(p.reply, ArgsPlaceholder, strings.TrimSpace(rest)), p.verb, true
	}
	return "", "", false
}

// Len returns the number of entries in the table.
func (r *Responses) Len() int {
	t := r.table.Load()
	if t == nil {
		return 0
	}
	return len(t.exact) + len(t.prefixes)
}

// Watch reloads the table whenever path changes. The returned watcher is
// already running; the caller stops it.
func (r *Responses) Watch(path string, log logger.Logger) (*confloader.Watcher, error) {
	if log == nil {
		log = logger.Default()
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	w.OnChange(func(changed string) {
		if err := r.Reload(changed); err != nil {
			log.Warn("response reload failed, keeping previous table", "path", changed, "error", err)
			return
		}
		log.Info("responses reloaded", "path", changed, "entries", r.Len())
	})
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.StartAsync()
	return w, nil
}

// normalizeCommand lowercases and collapses inner whitespace.
func normalizeCommand(cmd string) string {
	return strings.ToLower(strings.Join(strings.Fields(cmd), " "))
}
