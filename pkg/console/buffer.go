package console

// lineBuffer is a snapshot of the rows the console displays.
type lineBuffer struct {
	lines []Line

	// firstOpen is the index of the first line belonging to an entry
	// that was still open, or -1 if every line was closed.
	//
	// Lines before this index can only change by being deleted, which
	// the console tracks separately.
	firstOpen int
}

func newLineBuffer() *lineBuffer {
	return &lineBuffer{firstOpen: -1}
}

func (b *lineBuffer) append(line Line) {
	if !line.Closed && b.firstOpen < 0 {
		b.firstOpen = len(b.lines)
	}
	b.lines = append(b.lines, line)
}

func (b *lineBuffer) len() int {
	return len(b.lines)
}

// openBoundary returns the index from which lines may still change.
func (b *lineBuffer) openBoundary() int {
	if b.firstOpen < 0 {
		return len(b.lines)
	}
	return b.firstOpen
}

// firstDifference returns the first index at or after start where the
// two buffers' texts disagree, including an index covered by only one
// of them. Returns -1 if there is no such index.
//
// The Closed tag is ignored: it does not affect what is on the screen.
func (b *lineBuffer) firstDifference(other *lineBuffer, start int) int {
	for i := start; ; i++ {
		pastB := i >= len(b.lines)
		pastOther := i >= len(other.lines)

		switch {
		case pastB && pastOther:
			return -1
		case pastB || pastOther:
			return i
		case b.lines[i].Text != other.lines[i].Text:
			return i
		}
	}
}
