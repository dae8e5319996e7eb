package console

import (
	"errors"
	"slices"
	"sync"
)

// ErrEntryClosed is returned by TryUpdateFunc on a closed entry.
var ErrEntryClosed = errors.New("console: entry is closed")

// Entry is a line of output that can be edited in place until closed.
//
// Entries are created by a Console's Print methods and remain bound to
// that console. All methods are safe for concurrent use.
//
// Mutating methods return the entry to allow chaining. On a closed entry
// they do nothing, except Delete which works in any state.
type Entry struct {
	console *Console

	mu        sync.Mutex
	fields    []any
	separator string
	closed    bool
	deleted   bool

	// version counts mutations. The rendered-lines memo is keyed by it.
	version     uint64
	memoVersion uint64
	memoLines   []Line
}

// Update replaces the entry's content.
func (e *Entry) Update(fields ...any) *Entry {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e
	}
	e.fields = fields
	e.version++
	e.mu.Unlock()

	e.console.requestRender()
	return e
}

// UpdateFunc replaces the entry's content by transforming it.
//
// The transform receives a copy of the current fields. If it panics, the
// entry keeps its previous content and no redraw is requested. The
// transform must not call back into the entry or its console.
func (e *Entry) UpdateFunc(fn func(fields []any) []any) *Entry {
	changed := func() (changed bool) {
		defer func() {
			if recover() != nil {
				changed = false
			}
		}()

		e.mu.Lock()
		defer e.mu.Unlock()

		if e.closed {
			return false
		}

		e.fields = fn(slices.Clone(e.fields))
		e.version++
		return true
	}()

	if changed {
		e.console.requestRender()
	}
	return e
}

// TryUpdateFunc is like UpdateFunc for transforms that can fail.
//
// On error the entry keeps its previous content, no redraw is requested,
// and the error is returned. Returns ErrEntryClosed if the entry is
// closed. Panics in the transform propagate.
func (e *Entry) TryUpdateFunc(fn func(fields []any) ([]any, error)) error {
	err := func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		if e.closed {
			return ErrEntryClosed
		}

		fields, err := fn(slices.Clone(e.fields))
		if err != nil {
			return err
		}

		e.fields = fields
		e.version++
		return nil
	}()
	if err != nil {
		return err
	}

	e.console.requestRender()
	return nil
}

// SetSeparator changes the text joining the entry's fields.
//
// When redraw is false the new separator shows up whenever the next
// redraw happens for other reasons.
func (e *Entry) SetSeparator(separator string, redraw bool) *Entry {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e
	}
	e.separator = separator
	e.version++
	e.mu.Unlock()

	if redraw {
		e.console.requestRender()
	}
	return e
}

// Close freezes the entry's content.
//
// The content last drawn stays on the terminal. Closing does not itself
// cause a redraw.
func (e *Entry) Close() *Entry {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e
	}
	e.closed = true
	e.version++
	e.mu.Unlock()

	return e
}

// Delete removes the entry's lines from the terminal.
//
// Unlike other mutations, deleting works on a closed entry too.
func (e *Entry) Delete() *Entry {
	// The console does the state change so that it happens atomically
	// with respect to render passes.
	e.console.deleteEntry(e)
	return e
}

// Closed returns whether the entry still accepts edits.
func (e *Entry) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Deleted returns whether the entry was removed from the terminal.
func (e *Entry) Deleted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleted
}

// Lines returns the entry's rendered lines.
//
// The result is cached between mutations: calling Lines twice without a
// mutation in between returns the same slice. Callers must not modify it.
func (e *Entry) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.linesLocked()
}

func (e *Entry) linesLocked() []Line {
	if e.memoLines == nil || e.memoVersion != e.version {
		e.memoLines = renderContent(e.fields, e.separator, e.closed, e.deleted)
		e.memoVersion = e.version
	}
	return e.memoLines
}
