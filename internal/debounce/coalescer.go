// Package debounce collapses and paces bursts of callback requests.
package debounce

import (
	"sync"

	"github.com/liveline/liveline/internal/waiting"
)

// Coalescer runs a callback once per burst of notifications.
//
// The first notification after an idle period schedules the callback to run
// after a short delay. Notifications that arrive while the callback is
// scheduled are absorbed into it. A notification that arrives after the
// callback started schedules a new run.
type Coalescer struct {
	mu sync.Mutex
	wg sync.WaitGroup

	// delay is the coalescing window.
	delay waiting.Delay

	callback func()

	// pending is whether the callback should run when the window lapses.
	pending bool

	// isFlushing is whether the flush goroutine is running.
	isFlushing bool

	finished bool
	stop     chan struct{}
}

type CoalescerParams struct {
	// Delay is how long to wait after the first notification in a burst
	// before running the callback.
	Delay waiting.Delay

	// Callback runs on the coalescer's goroutine.
	Callback func()
}

func NewCoalescer(params CoalescerParams) *Coalescer {
	if params.Delay == nil {
		params.Delay = waiting.NoDelay()
	}
	if params.Callback == nil {
		panic("coalescer: nil callback")
	}

	return &Coalescer{
		delay:    params.Delay,
		callback: params.Callback,
		stop:     make(chan struct{}),
	}
}

// Notify requests a callback run, merging with other recent requests.
func (c *Coalescer) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return
	}

	c.pending = true

	if c.isFlushing {
		return
	}
	c.isFlushing = true
	c.wg.Add(1)

	go func() {
		for {
			delayChan, cancel := c.delay.Wait()
			select {
			case <-delayChan:
			case <-c.stop:
			}
			cancel()

			c.mu.Lock()
			if !c.pending || c.finished {
				break
			}
			c.pending = false
			c.mu.Unlock()

			c.callback()
		}

		c.isFlushing = false
		c.wg.Done()
		c.mu.Unlock()
	}()
}

// Finish stops the coalescer, dropping any scheduled run.
//
// It blocks until a running callback completes. Later notifications
// do nothing.
func (c *Coalescer) Finish() {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.finished = true
	close(c.stop)
	c.mu.Unlock()

	c.wg.Wait()
}
