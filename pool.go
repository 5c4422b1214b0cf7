package objpool

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yuku/objpool/internal/queue"
)

// Pool is a self-tuning pool of objects of type T. Borrow and Return never
// block; a background maintenance task keeps the number of idle objects
// within the configured bounds on its own clock.
//
// All methods are safe for concurrent use.
type Pool[T comparable] struct {
	id     uuid.UUID
	conf   Config[T]
	queue  queue.Queue[T]
	logger *zap.Logger

	// worker holds the handle of the active maintenance task. It is the sole
	// synchronization point for Start/Shutdown idempotence: at most one
	// handle is stored at any time.
	worker atomic.Pointer[TaskHandle]

	stats stats
}

// New creates a pool from conf. It synchronously creates conf.MinIdle objects
// via the factory, enqueues them, and starts the maintenance task. The first
// factory failure aborts construction and is returned to the caller.
func New[T comparable](ctx context.Context, conf Config[T]) (*Pool[T], error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool configuration: %w", err)
	}
	conf = conf.withDefaults()

	var q queue.Queue[T]
	if conf.Unbounded {
		q = queue.NewUnbounded[T]()
	} else {
		capacity := conf.MaxIdle
		if capacity < defaultQueueCapacity {
			capacity = defaultQueueCapacity
		}
		q = queue.NewBounded[T](capacity)
	}

	p := &Pool[T]{
		id:    uuid.New(),
		conf:  conf,
		queue: q,
	}
	p.logger = conf.Logger.With(zap.Stringer("pool_id", p.id))

	for i := 0; i < conf.MinIdle; i++ {
		obj, err := conf.Factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create initial object %d of %d: %w",
				i+1, conf.MinIdle, err,
			)
		}
		p.queue.TryEnqueue(obj)
		p.stats.created.Add(1)
	}

	p.Start()
	return p, nil
}

// ID returns the unique identifier of the pool instance. It is used as the
// pool_id field in log entries and metrics labels.
func (p *Pool[T]) ID() uuid.UUID {
	return p.id
}

// Size returns the number of idle objects currently held by the pool. The
// value is only an approximation while other goroutines are borrowing or
// returning.
func (p *Pool[T]) Size() int {
	return p.queue.Len()
}

// Borrow takes an idle object from the pool. If the pool is empty it creates
// a new object via the factory and returns that instead, so Borrow never
// blocks and never returns a zero value together with a nil error. A factory
// failure is returned directly; the pool state is unchanged and no retry is
// performed.
func (p *Pool[T]) Borrow(ctx context.Context) (T, error) {
	if obj, ok := p.queue.TryDequeue(); ok {
		p.stats.hits.Add(1)
		return obj, nil
	}
	p.stats.misses.Add(1)

	obj, err := p.conf.Factory(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to create object: %w", err)
	}
	p.stats.created.Add(1)
	return obj, nil
}

// Return gives obj back to the pool. The zero value of T is a no-op.
// Otherwise the object is enqueued unconditionally: the idle count may
// transiently exceed MaxIdle until the next maintenance pass trims it. With
// the bounded queue a return to a full queue is dropped silently.
func (p *Pool[T]) Return(obj T) {
	var zero T
	if obj == zero {
		return
	}
	if p.queue.TryEnqueue(obj) {
		p.stats.returned.Add(1)
	} else {
		p.stats.dropped.Add(1)
	}
}

// Start starts the maintenance task. It is idempotent: if a task is already
// active the newly scheduled one is cancelled immediately, so at most one
// maintenance task runs per pool. New calls Start, so calling it again is
// only needed after Shutdown.
func (p *Pool[T]) Start() {
	handle := p.conf.Scheduler.SchedulePeriodically(
		p.maintain, p.conf.ValidationInterval, p.conf.ValidationInterval,
	)
	if !p.worker.CompareAndSwap(nil, &handle) {
		// Lost the race against another Start; ours is superfluous.
		handle.Cancel()
		return
	}
	p.logger.Debug("maintenance task started",
		zap.Duration("validation_interval", p.conf.ValidationInterval),
	)
}

// Shutdown cancels the maintenance task. Idle objects and outstanding
// borrowed objects are unaffected, and Borrow/Return keep working. It is
// idempotent: a second call finds the handle slot already empty and does
// nothing. A maintenance pass in flight completes normally; only future
// passes are prevented.
func (p *Pool[T]) Shutdown() {
	if handle := p.worker.Swap(nil); handle != nil {
		(*handle).Cancel()
		p.logger.Debug("maintenance task stopped")
	}
}

// maintain is one maintenance pass. It reads the approximate idle count and
// tops up or trims toward the configured bounds. Borrows and returns from
// other goroutines may move the count while the pass runs; rebalancing is
// best effort, not an exact target.
func (p *Pool[T]) maintain() {
	size := p.queue.Len()
	switch {
	case size < p.conf.MinIdle:
		// Top up all the way to MaxIdle so that a burst of borrows right
		// after the pass still finds idle objects.
		p.topUp(p.conf.MaxIdle - size)
	case size > p.conf.MaxIdle:
		p.trim(size - p.conf.MaxIdle)
	}
}

// topUp creates and enqueues n objects. A factory failure aborts the
// remaining iterations; the next maintenance pass re-evaluates the size
// independently, so the condition is absorbed here and only logged.
func (p *Pool[T]) topUp(n int) {
	for i := 0; i < n; i++ {
		obj, err := p.conf.Factory(context.Background())
		if err != nil {
			p.stats.topUpErrors.Add(1)
			p.logger.Warn("maintenance top-up aborted",
				zap.Int("created", i),
				zap.Int("wanted", n),
				zap.Error(err),
			)
			return
		}
		if !p.queue.TryEnqueue(obj) {
			p.stats.dropped.Add(1)
			return
		}
		p.stats.created.Add(1)
	}
	p.logger.Debug("maintenance top-up completed", zap.Int("created", n))
}

// trim dequeues n objects and drops them. No destructor hook is invoked;
// dropped objects are left to the garbage collector.
func (p *Pool[T]) trim(n int) {
	for i := 0; i < n; i++ {
		if _, ok := p.queue.TryDequeue(); !ok {
			p.logger.Debug("maintenance trim ended early", zap.Int("discarded", i))
			return
		}
		p.stats.discarded.Add(1)
	}
	p.logger.Debug("maintenance trim completed", zap.Int("discarded", n))
}
