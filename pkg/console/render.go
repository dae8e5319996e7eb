package console

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/liveline/liveline/internal/sparselist"
)

// renderNow runs one redraw synchronously.
func (c *Console) renderNow() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.renderLocked()
}

// renderLocked diffs the current entries against what is displayed and
// rewrites only the rows that changed.
//
// The cursor is assumed to rest in column 0 on the row just below the
// console's last row, and is returned there. Rows are rewritten with a
// net-zero cursor move each: up to the row, erase, write, carriage
// return, and back down. When the new content has fewer rows, the stale
// tail is deleted in one operation, scrolling anything below it up.
//
// Caller must hold c.mu.
func (c *Console) renderLocked() {
	candidate := c.buildBufferLocked()

	start := 0
	if !c.forceFullScan {
		start = min(c.displayed.openBoundary(), candidate.openBoundary())
	}
	c.forceFullScan = false

	diffAt := c.displayed.firstDifference(candidate, start)
	if diffAt < 0 {
		c.displayed = candidate
		return
	}

	clearCount := c.displayed.len() - diffAt
	replacements := candidate.lines[diffAt:]

	for n := clearCount; n >= 1; n-- {
		idx := clearCount - n

		if idx >= len(replacements) {
			// Out of replacements: the rows at distance n and below
			// are stale.
			c.device.CursorUp(n)
			c.device.DeleteLines(n)
			break
		}

		c.device.CursorUp(n)
		c.device.ClearLine()
		c.write(replacements[idx].Text)
		c.write("\r")
		c.device.CursorDown(n)
	}

	for _, line := range replacements[min(clearCount, len(replacements)):] {
		c.write(line.Text + "\n")
	}

	if c.mirror != nil {
		c.mirror.UpdateRows(mirrorChanges(diffAt, c.displayed, candidate))
	}

	c.displayed = candidate
}

// buildBufferLocked renders every live entry into a fresh buffer.
//
// Rows are clipped to the effective width here rather than in the
// entries' own memos, because the width can change between redraws.
func (c *Console) buildBufferLocked() *lineBuffer {
	buf := newLineBuffer()
	width := c.effectiveWidthLocked()

	for _, entry := range c.entries {
		for _, line := range entry.Lines() {
			line.Text = clipRow(line.Text, width)
			buf.append(line)
		}
	}
	return buf
}

func (c *Console) effectiveWidthLocked() int {
	if c.maxLineWidth > 0 {
		return c.maxLineWidth
	}
	return c.device.Width()
}

// clipRow cuts a row to at most width display cells. A width of 0 means
// no clipping.
func clipRow(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.Truncate(text, width, "")
}

// mirrorChanges collects the rows a redraw changed, with removed tail
// rows blanked.
func mirrorChanges(diffAt int, displayed, candidate *lineBuffer) sparselist.SparseList[string] {
	changes := sparselist.SparseList[string]{}
	for i := diffAt; i < candidate.len(); i++ {
		changes.Put(i, candidate.lines[i].Text)
	}
	for i := candidate.len(); i < displayed.len(); i++ {
		changes.Put(i, "")
	}
	return changes
}

func (c *Console) write(s string) {
	if _, err := c.device.WriteString(s); err != nil {
		c.logger.CaptureError(fmt.Errorf("console: terminal write: %v", err))
	}
}
