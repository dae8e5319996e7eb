// Package sparselist provides a list type for when most indices are
// unset.
package sparselist

import (
	"maps"
	"slices"
)

// SparseList maps integer indices to values.
//
// Unlike a slice, setting a large index costs nothing, and indices may
// be negative. The zero value is an empty list.
type SparseList[T any] struct {
	items map[int]T
}

// Len returns the number of set indices.
func (l *SparseList[T]) Len() int {
	return len(l.items)
}

// Put sets the value at an index.
func (l *SparseList[T]) Put(index int, item T) {
	if l.items == nil {
		l.items = make(map[int]T)
	}

	l.items[index] = item
}

// Get returns the value at an index and whether the index is set.
func (l *SparseList[T]) Get(index int) (T, bool) {
	item, ok := l.items[index]
	return item, ok
}

// Delete unsets an index.
func (l *SparseList[T]) Delete(index int) {
	delete(l.items, index)
}

// FirstIndex returns the smallest set index, or 0 if the list is empty.
func (l *SparseList[T]) FirstIndex() int {
	first, _ := l.bounds()
	return first
}

// LastIndex returns the largest set index, or 0 if the list is empty.
func (l *SparseList[T]) LastIndex() int {
	_, last := l.bounds()
	return last
}

func (l *SparseList[T]) bounds() (first, last int) {
	started := false
	for index := range l.items {
		if !started {
			first, last = index, index
			started = true
			continue
		}

		first = min(first, index)
		last = max(last, index)
	}
	return first, last
}

// Update sets every index that is set in the other list to the other
// list's value.
func (l *SparseList[T]) Update(other SparseList[T]) {
	if len(other.items) == 0 {
		return
	}

	if l.items == nil {
		l.items = make(map[int]T, len(other.items))
	}

	maps.Copy(l.items, other.items)
}

// Run is a maximal block of consecutive set indices and their values.
type Run[T any] struct {
	// Start is the index of the first item in the run.
	Start int

	Items []T
}

// ToRuns breaks the list into runs of consecutive indices, ordered by
// index.
func (l *SparseList[T]) ToRuns() []Run[T] {
	indices := slices.Sorted(maps.Keys(l.items))

	runs := make([]Run[T], 0)
	for i, index := range indices {
		if i == 0 || index != indices[i-1]+1 {
			runs = append(runs, Run[T]{Start: index})
		}

		run := &runs[len(runs)-1]
		run.Items = append(run.Items, l.items[index])
	}
	return runs
}
