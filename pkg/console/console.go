// Package console renders lines that can be updated in place on a
// terminal.
//
// A Console owns a contiguous block of rows at the bottom of the
// terminal's scrollback. Static lines are printed once; dynamic lines
// return an Entry handle that can keep editing the text already on
// screen. Redraws are coalesced and rate limited, and only rows whose
// content actually changed are rewritten.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/liveline/liveline/internal/debounce"
	"github.com/liveline/liveline/internal/observability"
	"github.com/liveline/liveline/internal/sparselist"
	"github.com/liveline/liveline/internal/term"
	"github.com/liveline/liveline/internal/waiting"
)

const (
	defaultMaxFPS         = 1
	defaultCoalesceWindow = 10 * time.Millisecond
)

// RowMirror additionally records rendered rows somewhere durable.
type RowMirror interface {
	// UpdateRows records new content for specific rows.
	UpdateRows(changes sparselist.SparseList[string])

	// Finish flushes and stops the mirror.
	Finish()
}

type Params struct {
	// Device is the terminal to draw on. When nil, one is created
	// around Writer.
	Device term.Device

	// Writer is where terminal output goes when Device is nil.
	// Defaults to os.Stdout.
	Writer io.Writer

	// Logger receives internal diagnostics. Defaults to a logger that
	// discards everything.
	Logger *observability.CoreLogger

	// MaxFPS caps redraws per second. Defaults to 1.
	MaxFPS int

	// CoalesceWindow is how long to wait for more changes before
	// redrawing, so that a burst of updates becomes one redraw.
	// Defaults to 10ms.
	CoalesceWindow time.Duration

	// MaxLineWidth clips rendered rows to a display width.
	//
	// When 0, the terminal's width is used if it can be detected.
	// Clipping keeps the cursor arithmetic valid: a row that wraps
	// would break the renderer's row accounting.
	MaxLineWidth int

	// Mirror, if set, receives every row the console renders.
	Mirror RowMirror

	// GetNow is an injectable clock for testing.
	GetNow func() time.Time

	// NewDelay is an injectable delay factory for testing.
	NewDelay func(time.Duration) waiting.Delay
}

// Console manages a block of updatable rows on one terminal.
//
// All methods are safe for concurrent use.
type Console struct {
	device term.Device
	logger *observability.CoreLogger
	mirror RowMirror

	coalescer *debounce.Coalescer
	throttle  *debounce.Throttle

	maxLineWidth int

	mu        sync.Mutex
	entries   []*Entry
	displayed *lineBuffer

	// forceFullScan makes the next redraw diff from the first row.
	//
	// Set when a closed entry is deleted: its rows sit above the
	// displayed buffer's open boundary, where the diff would not
	// normally look.
	forceFullScan bool

	closed bool
}

// New returns a Console drawing to the terminal described by params.
func New(params Params) *Console {
	device := params.Device
	if device == nil {
		writer := params.Writer
		if writer == nil {
			writer = os.Stdout
		}
		device = term.NewDevice(writer)
	}

	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	maxFPS := params.MaxFPS
	if maxFPS <= 0 {
		maxFPS = defaultMaxFPS
	}

	coalesceWindow := params.CoalesceWindow
	if coalesceWindow <= 0 {
		coalesceWindow = defaultCoalesceWindow
	}

	newDelay := params.NewDelay
	if newDelay == nil {
		newDelay = waiting.NewDelay
	}

	c := &Console{
		device:       device,
		logger:       logger,
		mirror:       params.Mirror,
		maxLineWidth: params.MaxLineWidth,
		displayed:    newLineBuffer(),
	}

	c.throttle = debounce.NewThrottle(debounce.ThrottleParams{
		Period:   fpsPeriod(maxFPS),
		Callback: c.renderNow,
		GetNow:   params.GetNow,
		NewDelay: newDelay,
	})
	c.coalescer = debounce.NewCoalescer(debounce.CoalescerParams{
		Delay:    newDelay(coalesceWindow),
		Callback: c.throttle.Call,
	})

	return c
}

// fpsPeriod converts a frame rate cap to the minimum time between
// redraws, at millisecond granularity with a 1ms floor.
func fpsPeriod(fps int) time.Duration {
	return time.Duration(max(1, 1000/fps)) * time.Millisecond
}

// PrintLine prints a static line.
//
// The fields are joined with spaces the way Lines are rendered; see
// Entry.Lines. The line cannot be edited afterwards.
func (c *Console) PrintLine(fields ...any) {
	c.addEntry(fields, " ", true)
}

// PrintJoined prints a static line with a custom field separator.
func (c *Console) PrintJoined(fields []any, separator string) {
	c.addEntry(fields, separator, true)
}

// Printf prints a static formatted line.
func (c *Console) Printf(format string, args ...any) {
	c.addEntry([]any{fmt.Sprintf(format, args...)}, " ", true)
}

// PrintDynamic prints a line that can be edited through the returned
// handle until it is closed.
func (c *Console) PrintDynamic(fields ...any) *Entry {
	return c.addEntry(fields, " ", false)
}

// PrintDynamicJoined is PrintDynamic with a custom field separator.
func (c *Console) PrintDynamicJoined(fields []any, separator string) *Entry {
	return c.addEntry(fields, separator, false)
}

func (c *Console) addEntry(fields []any, separator string, closed bool) *Entry {
	entry := &Entry{
		console:   c,
		fields:    fields,
		separator: separator,
		closed:    closed,
	}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()

	c.requestRender()
	return entry
}

// NotifyExternalLine tells the console about text some other code wrote
// directly to the terminal.
//
// The text must already be on the screen, ending below the console's
// rows with a trailing newline. The console adopts it as a closed entry
// without redrawing, keeping its row accounting aligned with the real
// cursor position. One trailing newline is stripped; interior newlines
// produce multiple rows.
func (c *Console) NotifyExternalLine(text string) {
	entry := &Entry{
		console:   c,
		fields:    []any{strings.TrimSuffix(text, "\n")},
		separator: " ",
		closed:    true,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, entry)

	width := c.effectiveWidthLocked()
	changes := sparselist.SparseList[string]{}
	for _, line := range entry.Lines() {
		line.Text = clipRow(line.Text, width)
		changes.Put(c.displayed.len(), line.Text)
		c.displayed.append(line)
	}

	if c.mirror != nil {
		c.mirror.UpdateRows(changes)
	}
}

// SetMaxFPS changes the redraw rate cap. Non-positive values are
// ignored.
func (c *Console) SetMaxFPS(fps int) {
	if fps <= 0 {
		c.logger.CaptureWarn("console: ignoring non-positive max fps",
			"fps", fps)
		return
	}

	c.throttle.SetPeriod(fpsPeriod(fps))
}

// Flush redraws pending changes now, bypassing the redraw rate cap.
//
// Useful right before exiting, when a scheduled redraw would be lost.
func (c *Console) Flush() {
	c.renderNow()
}

// Close redraws pending changes and stops the console's goroutines.
//
// After Close, entries can still be created and edited but the terminal
// is never touched again. If the console has a mirror, it is finished.
func (c *Console) Close() {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.mu.Unlock()
	if alreadyClosed {
		return
	}

	// Stop the schedulers first so no redraw lands after the final one.
	c.coalescer.Finish()
	c.throttle.Finish()

	c.mu.Lock()
	if !c.closed {
		c.renderLocked()
		c.closed = true
	}
	c.mu.Unlock()

	if c.mirror != nil {
		c.mirror.Finish()
	}
}

// requestRender schedules a redraw, coalescing with other requests.
func (c *Console) requestRender() {
	c.coalescer.Notify()
}

// deleteEntry marks an entry deleted and schedules the redraw that
// removes its rows.
//
// The deleted flag and the full-scan flag must flip together under
// c.mu, the render pass's lock: a render landing between them would
// build a candidate without the entry's rows but diff only from the
// open boundary, missing rows of an already-closed entry, and the
// later full scan would then find nothing left to fix. Lock order is
// c.mu before e.mu, same as the render pass.
func (c *Console) deleteEntry(e *Entry) {
	c.mu.Lock()

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		c.mu.Unlock()
		return
	}
	wasClosed := e.closed
	e.deleted = true
	e.closed = true
	e.version++
	e.mu.Unlock()

	if wasClosed {
		c.forceFullScan = true
	}
	c.mu.Unlock()

	c.requestRender()
}
