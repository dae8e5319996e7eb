package console

import (
	"fmt"
	"strings"
)

// Line is one terminal row of an entry's rendered content.
type Line struct {
	// Text is the row's content, without a trailing newline.
	Text string

	// Closed is whether the owning entry was closed when the line was
	// rendered. Closed lines can only leave the terminal, not change.
	Closed bool
}

// renderField returns the text for a single content field.
//
// Strings pass through. Values implementing error or fmt.Stringer render
// through those; anything else through fmt.Sprint. Error takes precedence
// over Stringer, matching the fmt package.
func renderField(field any) string {
	switch x := field.(type) {
	case nil:
		return ""
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// renderContent expands an entry's state into lines.
//
// Fields that are nil or render to the empty string are dropped, so they
// produce no separator either. The joined text is split on '\n'. An entry
// whose content comes out empty still occupies one blank line; a deleted
// entry occupies none.
func renderContent(fields []any, separator string, closed, deleted bool) []Line {
	if deleted {
		return []Line{}
	}

	segments := make([]string, 0, len(fields))
	for _, field := range fields {
		text := renderField(field)
		if text == "" {
			continue
		}
		segments = append(segments, text)
	}

	rows := strings.Split(strings.Join(segments, separator), "\n")

	lines := make([]Line, len(rows))
	for i, row := range rows {
		lines[i] = Line{Text: row, Closed: closed}
	}
	return lines
}
