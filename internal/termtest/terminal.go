// Package termtest provides test doubles for package term.
package termtest

import (
	"slices"
	"strconv"
	"strings"
)

// Terminal is a text buffer that processes the escape sequences the
// renderer emits.
//
// For a list of various sequences and their definitions, see
// https://xfree86.org/4.8.0/ctlseqs.html. This isn't a full terminal
// emulator: only cursor movement, line erase and line deletion are
// understood, which is all the renderer uses. The view is unbounded,
// so nothing ever scrolls off.
//
// Not safe for concurrent use; callers must synchronize.
type Terminal struct {
	// view is the list of lines on the screen.
	view [][]rune

	// viewY is the cursor's line, indexing view from the top.
	viewY int

	// viewX is the cursor's column.
	viewX int

	// escapeSequence accumulates a partially read escape sequence, and
	// is empty when not inside one.
	escapeSequence string
}

// NewTerminal returns an empty terminal.
func NewTerminal() *Terminal {
	return &Terminal{view: make([][]rune, 0)}
}

// Write sends input to the terminal.
func (t *Terminal) Write(input string) {
	for _, char := range input {
		switch {
		case len(t.escapeSequence) == 0:
			switch char {
			default:
				t.putChar(char)
			case '\r':
				t.carriageReturn()
			case '\n':
				t.lineFeed()
			case '\x1b':
				t.escapeSequence = string(char)
			}

		case t.escapeSequence == "\x1b":
			switch char {
			case '[':
				t.escapeSequence = "\x1b["
			default:
				t.printEscapeSequence()
				t.putChar(char)
			}

		default:
			switch {
			case char >= '0' && char <= '9':
				t.escapeSequence += string(char)
			case char == 'A':
				t.cursorUp(t.escapeParam(1))
				t.escapeSequence = ""
			case char == 'B':
				t.cursorDown(t.escapeParam(1))
				t.escapeSequence = ""
			case char == 'K':
				t.eraseLine(t.escapeParam(0))
				t.escapeSequence = ""
			case char == 'M':
				t.deleteLines(t.escapeParam(1))
				t.escapeSequence = ""
			default:
				t.printEscapeSequence()
				t.putChar(char)
			}
		}
	}
}

// Lines returns the terminal's contents, one string per line.
//
// Trailing spaces are trimmed from each line.
func (t *Terminal) Lines() []string {
	lines := make([]string, len(t.view))
	for i, line := range t.view {
		lines[i] = strings.TrimRight(string(line), " ")
	}
	return lines
}

// Text returns the terminal's contents as a single string.
func (t *Terminal) Text() string {
	return strings.Join(t.Lines(), "\n")
}

// escapeParam returns the numeric parameter of the accumulated escape
// sequence, or def if there is none.
func (t *Terminal) escapeParam(def int) int {
	digits := t.escapeSequence[2:]
	if digits == "" {
		return def
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return def
	}
	return n
}

// printEscapeSequence prints out and resets the accumulated escape sequence.
//
// This is used for unknown escape sequences.
func (t *Terminal) printEscapeSequence() {
	for _, char := range t.escapeSequence {
		t.putChar(char)
	}

	t.escapeSequence = ""
}

// putChar writes a character to the terminal and shifts the cursor.
func (t *Terminal) putChar(char rune) {
	// Create empty lines until we reach the current line.
	for t.viewY >= len(t.view) {
		t.view = append(t.view, nil)
	}

	line := t.view[t.viewY]
	for t.viewX >= len(line) {
		line = append(line, ' ')
	}
	line[t.viewX] = char
	t.view[t.viewY] = line
	t.viewX++
}

// carriageReturn moves the cursor to the start of the line.
func (t *Terminal) carriageReturn() {
	t.viewX = 0
}

// lineFeed moves the cursor down one line.
//
// An implicit '\r' is included. That matches how terminals are usually
// configured, though it is a convention rather than a standard.
func (t *Terminal) lineFeed() {
	t.viewX = 0
	t.viewY += 1
}

// cursorUp shifts the cursor up by n lines.
func (t *Terminal) cursorUp(n int) {
	t.viewY = max(0, t.viewY-n)
}

// cursorDown shifts the cursor down by n lines.
func (t *Terminal) cursorDown(n int) {
	t.viewY += n
}

// eraseLine erases part of the line under the cursor.
//
// Mode 2 erases the whole line, mode 0 erases from the cursor to the
// end. The cursor does not move.
func (t *Terminal) eraseLine(mode int) {
	if t.viewY >= len(t.view) {
		return
	}

	switch mode {
	case 2:
		t.view[t.viewY] = nil
	case 0:
		line := t.view[t.viewY]
		if t.viewX < len(line) {
			t.view[t.viewY] = line[:t.viewX]
		}
	}
}

// deleteLines removes n lines starting at the cursor's line, shifting
// lines below it up.
func (t *Terminal) deleteLines(n int) {
	if t.viewY >= len(t.view) {
		return
	}

	end := min(t.viewY+n, len(t.view))
	t.view = slices.Delete(t.view, t.viewY, end)
}
