package view

import (
	"fmt"
	"io"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
	"github.com/rtemka/agg/commentsview/domain"
)

// WriteText выводит s для терминала.
// Разметка в присланном тексте вырезается.
func WriteText(w io.Writer, s domain.FetchState) error {
	switch s := s.(type) {
	case domain.StateReady:
		for _, c := range s.Items {
			_, err := fmt.Fprintf(w, "#%d %s <%s>\n%s\n\n", c.ID,
				strip.StripTags(c.Name), strip.StripTags(c.Email), indent(strip.StripTags(c.Body)))
			if err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%d comments\n", len(s.Items))
		return err
	case domain.StateError:
		_, err := fmt.Fprintf(w, "error: %s\n", s.Message)
		return err
	default:
		_, err := fmt.Fprintln(w, LoadingText)
		return err
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
