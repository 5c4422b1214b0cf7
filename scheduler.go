package objpool

import (
	"sync"
	"time"
)

// Scheduler provides the recurring-task capability consumed by a pool. The
// supplied task must be invoked repeatedly at the given period, on a
// goroutine distinct from the caller, until the returned handle is cancelled.
// Implementations must run successive invocations of the same task
// sequentially, never overlapping.
//
// A Scheduler is injected via Config.Scheduler, which makes the pool testable
// with a deterministic implementation. TickerScheduler is the default.
type Scheduler interface {
	SchedulePeriodically(task func(), initialDelay, period time.Duration) TaskHandle
}

// TaskHandle is a cancellable reference to a scheduled recurring task.
type TaskHandle interface {
	// Cancel stops the task. No invocations start after Cancel returns, but an
	// invocation already in flight runs to completion. It is safe to call
	// Cancel multiple times; subsequent calls are no-ops.
	Cancel()
}

// TickerScheduler schedules each task on its own goroutine driven by a
// time.Ticker. It is the default Scheduler used by pools.
type TickerScheduler struct{}

var _ Scheduler = TickerScheduler{}

// SchedulePeriodically starts a goroutine that runs task after initialDelay
// and then every period until the returned handle is cancelled.
func (TickerScheduler) SchedulePeriodically(task func(), initialDelay, period time.Duration) TaskHandle {
	h := &tickerHandle{stop: make(chan struct{})}
	go func() {
		delay := time.NewTimer(initialDelay)
		defer delay.Stop()
		select {
		case <-delay.C:
		case <-h.stop:
			return
		}
		task()

		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				task()
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

type tickerHandle struct {
	stopOnce sync.Once
	stop     chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.stopOnce.Do(func() { close(h.stop) })
}
