package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

// EmptyReply is printed in text mode when the server answered with no bytes.
const EmptyReply = "(empty response)"

// TextFormatter prints server replies as plain text.
type TextFormatter struct{}

// Format writes data as plain text. Exchanges print their reply; several
// exchanges are each preceded by "> <command>". Other values fall back to a
// header-less table.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case string:
		return writeLine(w, v)
	case *domain.CommandExchange:
		return writeReply(w, v)
	case []*domain.CommandExchange:
		if len(v) == 1 {
			return writeReply(w, v[0])
		}
		for _, x := range v {
			if _, err := fmt.Fprintf(w, "> %s\n", x.Request); err != nil {
				return err
			}
			if err := writeReply(w, x); err != nil {
				return err
			}
		}
		return nil
	case fmt.Stringer:
		return writeLine(w, v.String())
	default:
		return (&TableFormatter{NoHeaders: true}).Format(w, data)
	}
}

func writeReply(w io.Writer, x *domain.CommandExchange) error {
	if x == nil {
		return nil
	}
	if x.ResponseText == "" {
		return writeLine(w, EmptyReply)
	}
	return writeLine(w, x.ResponseText)
}

// writeLine writes s followed by a newline unless s already ends in one.
func writeLine(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
