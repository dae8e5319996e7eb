// Package mirror copies the rows a console renders into a file.
//
// The file gets the same treatment the terminal gets: only rows whose
// content changed are rewritten, so the file ends up holding the final
// content of every row rather than the redraw churn.
package mirror

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/liveline/liveline/internal/sparselist"
)

// lineFile is a file of newline-terminated lines that supports
// replacing lines in place.
type lineFile struct {
	fs   afero.Fs
	path string

	// lineCount is the number of lines in the file. The file ends with
	// a '\n' unless it is empty.
	lineCount int
}

// createLineFile creates an empty line file, truncating any existing
// file at the path. The parent directory must exist.
func createLineFile(fsys afero.Fs, path string, perm os.FileMode) (*lineFile, error) {
	if err := afero.WriteFile(fsys, path, []byte{}, perm); err != nil {
		return nil, err
	}

	return &lineFile{fs: fsys, path: path}, nil
}

// UpdateLines replaces the content of specific lines.
//
// Lines past the end of the file are created, with blank lines filling
// any gap. The cost is proportional to the amount of text between the
// lowest updated line and the end of the file, so updates near the end
// are cheap.
func (f *lineFile) UpdateLines(lines sparselist.SparseList[string]) (err error) {
	if lines.Len() == 0 {
		return nil
	}

	tail, err := f.openTail()
	if err != nil {
		return err
	}
	defer func() {
		// Closing flushes; its error matters.
		closeErr := tail.close()
		if err == nil {
			err = closeErr
		}
	}()

	// Peel lines off the end of the file until the lowest line being
	// replaced is exposed. The peeled lines are kept so that the ones
	// not being replaced can be written back unchanged.
	//
	// peeled[0] is the line that was last in the file.
	peeled := []string{}
	oldCount := f.lineCount
	for f.lineCount > lines.FirstIndex() {
		line, err := tail.popLine()
		if err != nil {
			return err
		}

		peeled = append(peeled, line)
		f.lineCount--
	}

	// Grow the file back, preferring replacement lines and falling back
	// to the peeled originals. Past the original end of the file, gaps
	// before the highest new line become blank lines.
	for {
		text, replaced := lines.Get(f.lineCount)
		switch {
		case replaced:
		case f.lineCount < oldCount:
			text = peeled[oldCount-1-f.lineCount]
		case f.lineCount < lines.LastIndex():
			text = ""
		default:
			return nil
		}

		if err := tail.appendLine(text); err != nil {
			return err
		}
		f.lineCount++
	}
}

// openTail opens the file for editing from the end.
func (f *lineFile) openTail() (*tailEditor, error) {
	file, err := f.fs.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %v", err)
	}

	return &tailEditor{f: file, tailStart: info.Size()}, nil
}

// tailEditor edits a line file from the end: lines can be popped off
// and appended, with the end of the file held in memory.
type tailEditor struct {
	f afero.File

	// tail is the file's content from offset tailStart to its logical
	// end. It grows backward as lines are popped.
	tail []byte

	// tailStart is the file offset of tail[0].
	tailStart int64

	// stale is whether the physical file still holds bytes past the
	// logical end, left over from popped lines.
	stale bool
}

// tailChunkSize is how much of the file is read at a time when looking
// for line starts.
const tailChunkSize = 8 * 1024

// popLine removes the last line from the file and returns it without
// its trailing '\n'.
//
// Returns an error if the file has no more lines.
func (e *tailEditor) popLine() (string, error) {
	for {
		if len(e.tail) > 0 {
			// The tail's final byte is this line's own '\n'. The line
			// starts after the previous '\n', which is safe to find by
			// scanning bytes: in UTF-8 a '\n' byte is never part of a
			// multi-byte rune.
			if i := bytes.LastIndexByte(e.tail[:len(e.tail)-1], '\n'); i >= 0 {
				return e.cutLineAt(i + 1), nil
			}
			if e.tailStart == 0 {
				return e.cutLineAt(0), nil
			}
		} else if e.tailStart == 0 {
			return "", errors.New("no lines left in file")
		}

		if err := e.readMore(); err != nil {
			return "", err
		}
	}
}

// cutLineAt removes the line starting at the given tail offset, which
// must be the final line of the tail, and returns it.
func (e *tailEditor) cutLineAt(start int) string {
	line := string(e.tail[start : len(e.tail)-1])

	e.tail = e.tail[:start:start]
	e.stale = true

	return line
}

// appendLine writes a line and its '\n' at the logical end of the file.
//
// The line must not contain '\n'.
func (e *tailEditor) appendLine(line string) error {
	end := e.tailStart + int64(len(e.tail))

	if e.stale {
		if err := e.f.Truncate(end); err != nil {
			return fmt.Errorf("failed to truncate before appending: %v", err)
		}
		e.stale = false
	}

	data := make([]byte, 0, len(line)+1)
	data = append(data, line...)
	data = append(data, '\n')

	if _, err := e.f.WriteAt(data, end); err != nil {
		return fmt.Errorf("failed to append: %v", err)
	}

	// Nothing before the line just written can be popped again during
	// this edit, so the tail restarts after it.
	e.tailStart = end + int64(len(data))
	e.tail = nil
	return nil
}

// readMore extends the in-memory tail backward by one chunk.
func (e *tailEditor) readMore() error {
	if e.tailStart == 0 {
		return errors.New("read past the start of the file")
	}

	size := min(int64(tailChunkSize), e.tailStart)
	start := e.tailStart - size

	chunk := make([]byte, size, int(size)+len(e.tail))
	n, err := e.f.ReadAt(chunk, start)
	if int64(n) != size {
		// ReadAt reads len(chunk) bytes unless it errors. A full read
		// ending exactly at the end of the file may come back with
		// io.EOF, which is fine.
		return fmt.Errorf("failed to read %d bytes at offset %d: %v",
			size, start, err)
	}

	e.tail = append(chunk, e.tail...)
	e.tailStart = start
	return nil
}

// close drops popped bytes from the physical file and closes it.
func (e *tailEditor) close() error {
	if err := e.f.Truncate(e.tailStart + int64(len(e.tail))); err != nil {
		return fmt.Errorf("failed to truncate when closing: %v", err)
	}

	if err := e.f.Close(); err != nil {
		return fmt.Errorf("failed to close: %v", err)
	}

	return nil
}
