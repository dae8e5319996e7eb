package console_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/liveline/liveline/internal/observabilitytest"
	"github.com/liveline/liveline/internal/sparselist"
	"github.com/liveline/liveline/internal/termtest"
	"github.com/liveline/liveline/internal/waiting"
	"github.com/liveline/liveline/internal/waitingtest"
	. "github.com/liveline/liveline/pkg/console"
)

// neverDelay makes scheduled redraws never fire, so that tests control
// rendering through Flush.
func neverDelay(time.Duration) waiting.Delay {
	return waitingtest.NewFakeDelay()
}

func newTestConsole(t *testing.T, params Params) (*Console, *termtest.FakeDevice) {
	t.Helper()

	device := termtest.NewFakeDevice()
	if params.Device == nil {
		params.Device = device
	}
	if params.NewDelay == nil {
		params.NewDelay = neverDelay
	}

	console := New(params)
	t.Cleanup(console.Close)

	return console, device
}

// fakeMirror records the rows a console reports.
type fakeMirror struct {
	mu       sync.Mutex
	rows     map[int]string
	finished bool
}

func (m *fakeMirror) UpdateRows(changes sparselist.SparseList[string]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rows == nil {
		m.rows = make(map[int]string)
	}
	for _, run := range changes.ToRuns() {
		for i, text := range run.Items {
			m.rows[run.Start+i] = text
		}
	}
}

func (m *fakeMirror) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
}

func (m *fakeMirror) snapshot() (map[int]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make(map[int]string, len(m.rows))
	for i, text := range m.rows {
		rows[i] = text
	}
	return rows, m.finished
}

func TestStaticLines(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintLine("a")
	console.PrintLine("b")
	console.Flush()

	assert.Equal(t,
		[]termtest.Op{termtest.OpWrite("a\n"), termtest.OpWrite("b\n")},
		device.Ops())
	assert.Equal(t, []string{"a", "b"}, device.ScreenLines())
}

func TestPrintHelpers(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintJoined([]any{"eta", "3s"}, ": ")
	console.Printf("%d of %d", 2, 7)
	console.Flush()

	assert.Equal(t, []string{"eta: 3s", "2 of 7"}, device.ScreenLines())
}

func TestUpdateRewritesRowsBelowChange(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	entry := console.PrintDynamic("working")
	console.PrintLine("queued: 5")
	console.Flush()
	device.ClearOps()

	entry.Update("working..")
	console.Flush()

	// Every row from the first difference down is rewritten, each with
	// a net-zero cursor move.
	assert.Equal(t, []termtest.Op{
		termtest.OpCursorUp(2),
		termtest.OpClearLine(),
		termtest.OpWrite("working.."),
		termtest.OpWrite("\r"),
		termtest.OpCursorDown(2),
		termtest.OpCursorUp(1),
		termtest.OpClearLine(),
		termtest.OpWrite("queued: 5"),
		termtest.OpWrite("\r"),
		termtest.OpCursorDown(1),
	}, device.Ops())
	assert.Equal(t, []string{"working..", "queued: 5"}, device.ScreenLines())
}

func TestUpdateSkipsClosedRowsAbove(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintLine("compiled main.go")
	entry := console.PrintDynamic("linking")
	console.Flush()
	device.ClearOps()

	entry.Update("linking done")
	console.Flush()

	// The closed row above the change is not touched.
	assert.Equal(t, []termtest.Op{
		termtest.OpCursorUp(1),
		termtest.OpClearLine(),
		termtest.OpWrite("linking done"),
		termtest.OpWrite("\r"),
		termtest.OpCursorDown(1),
	}, device.Ops())
	assert.Equal(t,
		[]string{"compiled main.go", "linking done"},
		device.ScreenLines())
}

func TestNoChangeIsANoOp(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintLine("settled")
	console.Flush()
	device.ClearOps()

	console.Flush()
	console.Flush()

	assert.Empty(t, device.Ops())
}

func TestShrinkingEntryDeletesRows(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	entry := console.PrintDynamic("one\ntwo\nthree")
	console.Flush()
	device.ClearOps()

	entry.Update("one")
	console.Flush()

	// The stale tail is removed in a single delete, scrolling rows up.
	assert.Equal(t, []termtest.Op{
		termtest.OpCursorUp(2),
		termtest.OpDeleteLines(2),
	}, device.Ops())
	assert.Equal(t, []string{"one"}, device.ScreenLines())

	// The cursor accounting survives the deletion.
	entry.Update("one\nTWO")
	console.Flush()
	assert.Equal(t, []string{"one", "TWO"}, device.ScreenLines())
}

func TestGrowingEntryAppendsRows(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	entry := console.PrintDynamic("one")
	console.Flush()
	device.ClearOps()

	entry.Update("one\ntwo")
	console.Flush()

	assert.Equal(t,
		[]termtest.Op{termtest.OpWrite("two\n")},
		device.Ops())
	assert.Equal(t, []string{"one", "two"}, device.ScreenLines())
}

func TestPostCloseUpdateNeverRenders(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintDynamic("x").Update("y").Close().Update("z")
	console.Flush()

	assert.Equal(t, []string{"y"}, device.ScreenLines())
}

func TestSeparatorAndAbsentFields(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	entry := console.PrintDynamicJoined([]any{"a", "b"}, "-")
	console.Flush()
	assert.Equal(t, []string{"a-b"}, device.ScreenLines())

	entry.Update("a", nil, "c")
	console.Flush()
	assert.Equal(t, []string{"a-c"}, device.ScreenLines())
}

func TestDeletingOpenEntryRemovesItsRows(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	alpha := console.PrintDynamic("alpha")
	console.PrintDynamic("beta")
	console.Flush()
	device.ClearOps()

	alpha.Delete()
	console.Flush()

	assert.Equal(t, []termtest.Op{
		termtest.OpCursorUp(2),
		termtest.OpClearLine(),
		termtest.OpWrite("beta"),
		termtest.OpWrite("\r"),
		termtest.OpCursorDown(2),
		termtest.OpCursorUp(1),
		termtest.OpDeleteLines(1),
	}, device.Ops())
	assert.Equal(t, []string{"beta"}, device.ScreenLines())
}

func TestDeletingClosedEntryRemovesItsRows(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	first := console.PrintDynamic("first")
	console.PrintLine("second")
	console.Flush()

	first.Close()
	console.Flush()
	device.ClearOps()

	// Both entries are closed, so the deleted rows sit above where the
	// diff normally starts scanning.
	first.Delete()
	console.Flush()

	assert.Equal(t, []string{"second"}, device.ScreenLines())
}

func TestDeleteDuringConcurrentFlush(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	first := console.PrintDynamic("first")
	console.PrintLine("second")
	console.Flush()
	first.Close()
	console.Flush()

	// Hammer redraws from another goroutine so that render passes land
	// at arbitrary points around the deletion. Whichever pass runs
	// first after Delete must see the deleted flag and the full-scan
	// flag together, or the closed entry's row above the diff's normal
	// scan start would survive on screen.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				console.Flush()
			}
		}
	}()

	first.Delete()
	close(stop)
	<-done

	console.Flush()
	assert.Equal(t, []string{"second"}, device.ScreenLines())
}

func TestMutationAfterOutOfOrderClose(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	first := console.PrintDynamic("one")
	second := console.PrintDynamic("two")
	console.Flush()

	// The later entry closes before the earlier one.
	second.Close()
	console.Flush()

	first.Update("ONE")
	console.Flush()
	assert.Equal(t, []string{"ONE", "two"}, device.ScreenLines())

	first.Close()
	first.Update("never")
	console.Flush()
	assert.Equal(t, []string{"ONE", "two"}, device.ScreenLines())
}

func TestNotifyExternalLine(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintLine("managed")
	console.Flush()
	device.ClearOps()

	// Another writer puts text on the terminal behind the console's back.
	_, err := device.WriteString("external\n")
	assert.NoError(t, err)
	console.NotifyExternalLine("external\n")

	console.PrintLine("after")
	console.Flush()

	// The adopted row is never rewritten; new output lands below it.
	assert.Equal(t, []termtest.Op{
		termtest.OpWrite("external\n"),
		termtest.OpWrite("after\n"),
	}, device.Ops())
	assert.Equal(t,
		[]string{"managed", "external", "after"},
		device.ScreenLines())
}

func TestNotifyExternalLineMultiRow(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	_, err := device.WriteString("x\ny\n")
	assert.NoError(t, err)
	console.NotifyExternalLine("x\ny\n")

	console.PrintLine("z")
	console.Flush()

	assert.Equal(t, []string{"x", "y", "z"}, device.ScreenLines())
}

func TestMaxLineWidthClipsRows(t *testing.T) {
	console, device := newTestConsole(t, Params{MaxLineWidth: 5})

	console.PrintLine("abcdefgh")
	console.PrintLine("日本語")
	console.Flush()

	// Clipping counts display cells: each of the kanji is two wide.
	assert.Equal(t, []string{"abcde", "日本"}, device.ScreenLines())
}

func TestRowsClipToDeviceWidth(t *testing.T) {
	console, device := newTestConsole(t, Params{})
	device.SetWidth(4)

	console.PrintDynamic("abcdef")
	console.Flush()
	assert.Equal(t, []string{"abcd"}, device.ScreenLines())

	// A width change is picked up by the next redraw.
	device.SetWidth(6)
	console.Flush()
	assert.Equal(t, []string{"abcdef"}, device.ScreenLines())
}

func TestCloseRendersPendingChanges(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	entry := console.PrintDynamic("step 1")
	console.Flush()

	entry.Update("step 2")
	console.Close()

	assert.Equal(t, []string{"step 2"}, device.ScreenLines())
}

func TestCloseStopsRendering(t *testing.T) {
	console, device := newTestConsole(t, Params{})

	console.PrintLine("before")
	console.Flush()
	console.Close()
	console.Close()
	device.ClearOps()

	// Entries survive Close but the terminal is left alone.
	entry := console.PrintDynamic("after")
	entry.Update("still after")
	console.Flush()

	assert.Empty(t, device.Ops())
	assert.Equal(t, []string{"before"}, device.ScreenLines())
	assert.Equal(t, "still after", entry.Lines()[0].Text)
}

func TestWriteFailureIsLogged(t *testing.T) {
	logger, logs := observabilitytest.NewRecordingTestLogger(t)
	console, device := newTestConsole(t, Params{Logger: logger})
	device.FailWrites(errors.New("broken pipe"))

	console.PrintLine("x")
	console.Flush()
	console.Flush()

	records := observabilitytest.ExtractLogs(t, logs)
	assert.Len(t, records, 1)
	assert.Contains(t, records[0]["msg"], "console: terminal write: broken pipe")
}

func TestSetMaxFPSRejectsNonPositive(t *testing.T) {
	logger, logs := observabilitytest.NewRecordingTestLogger(t)
	console, _ := newTestConsole(t, Params{Logger: logger})

	console.SetMaxFPS(0)

	assert.Contains(t, logs.String(), "ignoring non-positive max fps")
}

func TestMirrorSeesRenderedRows(t *testing.T) {
	mirror := &fakeMirror{}
	console, _ := newTestConsole(t, Params{Mirror: mirror})

	console.PrintLine("a")
	entry := console.PrintDynamic("b\nc")
	console.Flush()

	rows, _ := mirror.snapshot()
	assert.Equal(t, map[int]string{0: "a", 1: "b", 2: "c"}, rows)

	// Removed rows are blanked in the mirror, not silently dropped.
	entry.Update("B")
	console.Flush()

	rows, _ = mirror.snapshot()
	assert.Equal(t, map[int]string{0: "a", 1: "B", 2: ""}, rows)

	console.Close()
	_, finished := mirror.snapshot()
	assert.True(t, finished)
}

func TestMirrorSeesExternalLines(t *testing.T) {
	mirror := &fakeMirror{}
	console, _ := newTestConsole(t, Params{Mirror: mirror})

	console.PrintLine("managed")
	console.Flush()
	console.NotifyExternalLine("external\n")

	rows, _ := mirror.snapshot()
	assert.Equal(t, map[int]string{0: "managed", 1: "external"}, rows)
}

func TestRewriteOperationOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := termtest.NewMockDevice(ctrl)
	device.EXPECT().Width().Return(0).AnyTimes()

	console := New(Params{Device: device, NewDelay: neverDelay})
	t.Cleanup(console.Close)

	device.EXPECT().WriteString("spinning |\n").Return(11, nil)
	entry := console.PrintDynamic("spinning", "|")
	console.Flush()

	gomock.InOrder(
		device.EXPECT().CursorUp(1),
		device.EXPECT().ClearLine(),
		device.EXPECT().WriteString("spinning /").Return(10, nil),
		device.EXPECT().WriteString("\r").Return(1, nil),
		device.EXPECT().CursorDown(1),
	)
	entry.Update("spinning", "/")
	console.Flush()
}

func TestDefaultConsoleDelegates(t *testing.T) {
	console, device := newTestConsole(t, Params{})
	previous := SetDefault(console)
	defer SetDefault(previous)

	PrintLine("via package")
	entry := PrintDynamic("busy")
	Flush()

	assert.Equal(t, []string{"via package", "busy"}, device.ScreenLines())

	entry.Update("done")
	Flush()
	assert.Equal(t, []string{"via package", "done"}, device.ScreenLines())
}
