package termtest

import (
	"fmt"
	"sync"

	"github.com/liveline/liveline/internal/term"
)

// Op is a recorded device operation, formatted for readable test diffs.
type Op string

func OpCursorUp(n int) Op    { return Op(fmt.Sprintf("cursor-up %d", n)) }
func OpCursorDown(n int) Op  { return Op(fmt.Sprintf("cursor-down %d", n)) }
func OpClearLine() Op        { return Op("clear-line") }
func OpDeleteLines(n int) Op { return Op(fmt.Sprintf("delete-lines %d", n)) }
func OpWrite(s string) Op    { return Op(fmt.Sprintf("write %q", s)) }

// FakeDevice is a Device that records operations and models the
// resulting screen.
//
// Tests can assert on the exact operation sequence via Ops and on the
// final terminal contents via ScreenLines.
type FakeDevice struct {
	mu       sync.Mutex
	ops      []Op
	terminal *Terminal
	width    int
	writeErr error
}

var _ term.Device = &FakeDevice{}

func NewFakeDevice() *FakeDevice {
	return &FakeDevice{terminal: NewTerminal()}
}

func (d *FakeDevice) CursorUp(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ops = append(d.ops, OpCursorUp(n))
	d.terminal.Write(fmt.Sprintf("\x1b[%dA", n))
}

func (d *FakeDevice) CursorDown(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ops = append(d.ops, OpCursorDown(n))
	d.terminal.Write(fmt.Sprintf("\x1b[%dB", n))
}

func (d *FakeDevice) ClearLine() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ops = append(d.ops, OpClearLine())
	d.terminal.Write("\x1b[2K")
}

func (d *FakeDevice) DeleteLines(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ops = append(d.ops, OpDeleteLines(n))
	d.terminal.Write(fmt.Sprintf("\x1b[%dM", n))
}

func (d *FakeDevice) WriteString(s string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.writeErr != nil {
		return 0, d.writeErr
	}

	d.ops = append(d.ops, OpWrite(s))
	d.terminal.Write(s)
	return len(s), nil
}

func (d *FakeDevice) Width() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width
}

// SetWidth changes the width reported by the device.
func (d *FakeDevice) SetWidth(width int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width = width
}

// FailWrites makes all later WriteString calls return err.
func (d *FakeDevice) FailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

// Ops returns a copy of the operations recorded so far.
func (d *FakeDevice) Ops() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()

	ops := make([]Op, len(d.ops))
	copy(ops, d.ops)
	return ops
}

// ClearOps forgets the operations recorded so far.
//
// The screen model is unaffected.
func (d *FakeDevice) ClearOps() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = nil
}

// ScreenLines returns the modeled terminal contents.
func (d *FakeDevice) ScreenLines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminal.Lines()
}

// Screen returns the modeled terminal contents as a single string.
func (d *FakeDevice) Screen() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminal.Text()
}
