package debounce_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liveline/liveline/internal/debounce"
)

func TestThrottleLeadingCallRunsImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   time.Second,
			Callback: func() { count++ },
		})
		defer th.Finish()

		th.Call()

		assert.Equal(t, 1, count)
	})
}

func TestThrottleBurstGetsOneTrailingRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   time.Second,
			Callback: func() { count++ },
		})
		defer th.Finish()

		th.Call()
		th.Call()
		th.Call()
		assert.Equal(t, 1, count, "cooldown calls should not run immediately")

		time.Sleep(1100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 2, count, "expected exactly one trailing run")

		time.Sleep(5 * time.Second)
		synctest.Wait()
		assert.Equal(t, 2, count, "no further runs without further calls")
	})
}

func TestThrottleSpacedCallsAllRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   time.Second,
			Callback: func() { count++ },
		})
		defer th.Finish()

		th.Call()
		time.Sleep(2 * time.Second)
		th.Call()
		time.Sleep(2 * time.Second)
		th.Call()

		assert.Equal(t, 3, count)
	})
}

func TestThrottleSetPeriod(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   time.Hour,
			Callback: func() { count++ },
		})
		defer th.Finish()

		th.SetPeriod(time.Second)

		th.Call()
		th.Call()
		time.Sleep(1100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 2, count, "trailing run should use the shorter period")
	})
}

func TestThrottleNonPositivePeriodDisablesThrottling(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   0,
			Callback: func() { count++ },
		})
		defer th.Finish()

		th.Call()
		th.Call()
		th.Call()

		assert.Equal(t, 3, count)
	})
}

func TestThrottleFinishDropsTrailingRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		count := 0
		th := debounce.NewThrottle(debounce.ThrottleParams{
			Period:   time.Second,
			Callback: func() { count++ },
		})

		th.Call()
		th.Call()
		th.Finish()

		time.Sleep(5 * time.Second)
		synctest.Wait()
		assert.Equal(t, 1, count)

		th.Call()
		assert.Equal(t, 1, count, "calls after Finish should do nothing")
	})
}
