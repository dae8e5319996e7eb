// Package waitingtest provides fakes for package waiting.
package waitingtest

import (
	"sync"

	"github.com/liveline/liveline/internal/waiting"
)

// FakeDelay is a Delay that elapses when the test calls Tick, never on
// its own.
type FakeDelay struct {
	mu sync.Mutex

	// waiters are the channels handed out by Wait that have not yet
	// been released by a Tick.
	waiters []chan struct{}

	// done is whether the final Tick happened. Waiting after that is a
	// bug in the code under test.
	done bool
}

var _ waiting.Delay = &FakeDelay{}

func NewFakeDelay() *FakeDelay {
	return &FakeDelay{}
}

// Tick elapses every delay handed out so far.
//
// With allowMoreWait false this is the final Tick, and a later Wait
// panics instead of blocking its goroutine forever.
func (d *FakeDelay) Tick(allowMoreWait bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, waiter := range d.waiters {
		close(waiter)
	}
	d.waiters = nil
	d.done = !allowMoreWait
}

func (d *FakeDelay) IsZero() bool {
	return false
}

func (d *FakeDelay) Wait() (<-chan struct{}, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.done {
		panic("waitingtest: Wait() after the final Tick()")
	}

	waiter := make(chan struct{})
	d.waiters = append(d.waiters, waiter)

	// Cancellation is a no-op; the channel is closed by the next Tick.
	return waiter, func() {}
}
