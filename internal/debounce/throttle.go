package debounce

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/liveline/liveline/internal/waiting"
)

// Throttle limits how often a callback runs.
//
// A call when the rate allows runs the callback immediately. A call during
// the cooldown schedules exactly one trailing run for when the cooldown
// lapses, so the last call in a burst is never lost.
type Throttle struct {
	mu sync.Mutex
	wg sync.WaitGroup

	limiter  *rate.Limiter
	callback func()
	getNow   func() time.Time
	newDelay func(time.Duration) waiting.Delay

	// pending is whether a trailing run is scheduled.
	pending bool

	finished bool
	stop     chan struct{}
}

type ThrottleParams struct {
	// Period is the minimum time between callback runs.
	//
	// A non-positive period disables throttling.
	Period time.Duration

	// Callback runs either on the caller's goroutine (when the rate
	// allows) or on the throttle's goroutine (trailing runs).
	Callback func()

	// GetNow is an injectable clock for testing. Defaults to time.Now.
	GetNow func() time.Time

	// NewDelay is an injectable delay factory for testing.
	// Defaults to waiting.NewDelay.
	NewDelay func(time.Duration) waiting.Delay
}

func NewThrottle(params ThrottleParams) *Throttle {
	if params.Callback == nil {
		panic("throttle: nil callback")
	}
	if params.GetNow == nil {
		params.GetNow = time.Now
	}
	if params.NewDelay == nil {
		params.NewDelay = waiting.NewDelay
	}

	limit := rate.Inf
	if params.Period > 0 {
		limit = rate.Every(params.Period)
	}

	return &Throttle{
		limiter:  rate.NewLimiter(limit, 1),
		callback: params.Callback,
		getNow:   params.GetNow,
		newDelay: params.NewDelay,
		stop:     make(chan struct{}),
	}
}

// Call runs the callback now if the rate allows, and otherwise arranges
// for it to run when the cooldown lapses.
func (t *Throttle) Call() {
	t.mu.Lock()

	if t.finished {
		t.mu.Unlock()
		return
	}

	if t.pending {
		// The scheduled trailing run covers this call.
		t.mu.Unlock()
		return
	}

	now := t.getNow()
	if t.limiter.AllowN(now, 1) {
		t.mu.Unlock()
		t.callback()
		return
	}

	// Reserve the next slot and run then.
	t.pending = true
	wait := t.limiter.ReserveN(now, 1).DelayFrom(now)
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()

		delayChan, cancel := t.newDelay(wait).Wait()
		defer cancel()
		select {
		case <-delayChan:
		case <-t.stop:
			return
		}

		t.mu.Lock()
		if t.finished {
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.mu.Unlock()

		t.callback()
	}()
}

// SetPeriod changes the minimum time between callback runs.
//
// A non-positive period disables throttling. A scheduled trailing run
// still fires at the time computed under the old period.
func (t *Throttle) SetPeriod(period time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	limit := rate.Inf
	if period > 0 {
		limit = rate.Every(period)
	}
	t.limiter.SetLimitAt(t.getNow(), limit)
}

// Finish stops the throttle, dropping any scheduled trailing run.
//
// It blocks until a running trailing callback completes. Later calls
// do nothing.
func (t *Throttle) Finish() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.finished = true
	close(t.stop)
	t.mu.Unlock()

	t.wg.Wait()
}
