// Package term writes to the terminal.
package term

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"
)

// Device is the terminal surface a renderer draws on.
//
// Cursor movements are relative. Implementations never read from the
// terminal.
type Device interface {
	// CursorUp moves the cursor n lines up, staying in the same column.
	CursorUp(n int)

	// CursorDown moves the cursor n lines down, staying in the same column.
	CursorDown(n int)

	// ClearLine erases the line under the cursor without moving it.
	ClearLine()

	// DeleteLines removes n lines starting at the cursor's line,
	// shifting later lines up.
	DeleteLines(n int)

	// WriteString writes text at the cursor.
	//
	// The text may contain '\n' and '\r'.
	WriteString(s string) (int, error)

	// Width returns the terminal width in cells, or 0 if unknown.
	Width() int
}

// NewDevice returns a Device that draws to w using ANSI escape sequences.
func NewDevice(w io.Writer) Device {
	return &termenvDevice{
		out:    termenv.NewOutput(w),
		writer: w,
	}
}

type termenvDevice struct {
	out    *termenv.Output
	writer io.Writer
}

func (d *termenvDevice) CursorUp(n int) {
	if n > 0 {
		d.out.CursorUp(n)
	}
}

func (d *termenvDevice) CursorDown(n int) {
	if n > 0 {
		d.out.CursorDown(n)
	}
}

func (d *termenvDevice) ClearLine() {
	d.out.ClearLine()
}

func (d *termenvDevice) DeleteLines(n int) {
	if n > 0 {
		d.out.DeleteLines(n)
	}
}

func (d *termenvDevice) WriteString(s string) (int, error) {
	return d.out.WriteString(s)
}

func (d *termenvDevice) Width() int {
	fd, ok := fileDescriptor(d.writer)
	if !ok || !xterm.IsTerminal(fd) {
		return 0
	}

	width, _, err := xterm.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	fd, ok := fileDescriptor(w)
	return ok && xterm.IsTerminal(fd)
}

func fileDescriptor(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}
