package debounce_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liveline/liveline/internal/debounce"
	"github.com/liveline/liveline/internal/waiting"
	"github.com/liveline/liveline/internal/waitingtest"
)

func TestCoalescerMergesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		c := debounce.NewCoalescer(debounce.CoalescerParams{
			Delay:    waiting.NewDelay(10 * time.Millisecond),
			Callback: func() { count++ },
		})
		defer c.Finish()

		c.Notify()
		c.Notify()
		c.Notify()

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, count)
	})
}

func TestCoalescerRunsAgainAfterIdle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		c := debounce.NewCoalescer(debounce.CoalescerParams{
			Delay:    waiting.NewDelay(10 * time.Millisecond),
			Callback: func() { count++ },
		})
		defer c.Finish()

		c.Notify()
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, count)

		c.Notify()
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 2, count)
	})
}

func TestCoalescerFakeDelayControlsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		delay := waitingtest.NewFakeDelay()
		count := 0
		c := debounce.NewCoalescer(debounce.CoalescerParams{
			Delay:    delay,
			Callback: func() { count++ },
		})

		c.Notify()
		c.Notify()
		synctest.Wait()
		assert.Zero(t, count, "callback before the window lapsed")

		delay.Tick(true)
		synctest.Wait()
		assert.Equal(t, 1, count)

		c.Finish()

		// No further waits are expected after Finish.
		delay.Tick(false)
	})
}

func TestCoalescerNotifyAfterFinishDoesNothing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		c := debounce.NewCoalescer(debounce.CoalescerParams{
			Delay:    waiting.NewDelay(10 * time.Millisecond),
			Callback: func() { count++ },
		})

		c.Finish()
		c.Notify()

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Zero(t, count)
	})
}

func TestCoalescerFinishDropsScheduledRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		c := debounce.NewCoalescer(debounce.CoalescerParams{
			Delay:    waiting.NewDelay(time.Minute),
			Callback: func() { count++ },
		})

		c.Notify()
		c.Finish()

		time.Sleep(2 * time.Minute)
		synctest.Wait()
		assert.Zero(t, count)
	})
}
