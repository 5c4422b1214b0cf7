package objpool_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/objpool"
)

func TestTickerScheduler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-dependent test in short mode")
	}

	var sched objpool.TickerScheduler

	t.Run("runs the task periodically", func(t *testing.T) {
		var count atomic.Int64
		handle := sched.SchedulePeriodically(func() {
			count.Add(1)
		}, 10*time.Millisecond, 10*time.Millisecond)
		defer handle.Cancel()

		require.Eventually(t, func() bool {
			return count.Load() >= 3
		}, time.Second, time.Millisecond, "task should keep firing")
	})

	t.Run("cancel stops future runs", func(t *testing.T) {
		var count atomic.Int64
		handle := sched.SchedulePeriodically(func() {
			count.Add(1)
		}, 5*time.Millisecond, 5*time.Millisecond)

		require.Eventually(t, func() bool {
			return count.Load() >= 1
		}, time.Second, time.Millisecond)

		handle.Cancel()
		// Allow an in-flight run to finish before sampling.
		time.Sleep(20 * time.Millisecond)
		before := count.Load()

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, before, count.Load(), "no run should start after Cancel")
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		handle := sched.SchedulePeriodically(func() {}, time.Millisecond, time.Millisecond)

		handle.Cancel()
		assert.NotPanics(t, func() { handle.Cancel() })
	})

	t.Run("cancel before the initial delay prevents any run", func(t *testing.T) {
		var count atomic.Int64
		handle := sched.SchedulePeriodically(func() {
			count.Add(1)
		}, 100*time.Millisecond, time.Millisecond)

		handle.Cancel()
		time.Sleep(150 * time.Millisecond)

		assert.Zero(t, count.Load(), "cancelled task should never run")
	})

	t.Run("honors the initial delay", func(t *testing.T) {
		var count atomic.Int64
		handle := sched.SchedulePeriodically(func() {
			count.Add(1)
		}, 200*time.Millisecond, time.Millisecond)
		defer handle.Cancel()

		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, count.Load(), "task should not run before the initial delay")
	})
}
