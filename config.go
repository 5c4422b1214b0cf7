package objpool

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Factory produces one new instance of the pooled type. It is invoked by
// Borrow on a pool miss, during construction to pre-populate the pool, and by
// the maintenance task when topping up, so it must be safe for concurrent
// use. A failure is local to the one call; the pool never retries.
type Factory[T comparable] func(ctx context.Context) (T, error)

// DefaultValidationInterval is the maintenance period used when
// Config.ValidationInterval is zero.
const DefaultValidationInterval = 67 * time.Second

// defaultQueueCapacity is the minimum capacity of the bounded queue,
// regardless of MaxIdle.
const defaultQueueCapacity = 1024

// Config holds the configuration for creating a pool.
type Config[T comparable] struct {
	// Factory creates new pooled objects. Required.
	Factory Factory[T]

	// MinIdle is the minimum number of idle objects the maintenance task
	// tries to keep in the pool. It is also the number of objects created
	// synchronously during construction. Must be non-negative.
	MinIdle int

	// MaxIdle is the maximum number of idle objects the maintenance task
	// leaves in the pool. Returns may push the idle count above MaxIdle
	// between maintenance passes; the excess is trimmed on the next pass.
	// Must be at least MinIdle.
	MaxIdle int

	// ValidationInterval is the period between maintenance passes.
	// Defaults to DefaultValidationInterval. Must not be negative.
	//
	// Note that with the zero-value bounds (MinIdle=0, MaxIdle=0) every pass
	// trims all idle objects, so the pool degenerates to on-demand creation
	// with no idle retention.
	ValidationInterval time.Duration

	// Unbounded selects the unbounded linked queue instead of the default
	// bounded MPMC array queue. With the bounded queue, returns beyond the
	// queue capacity are dropped silently.
	Unbounded bool

	// Scheduler supplies the recurring-task capability for the maintenance
	// pass. Defaults to TickerScheduler.
	Scheduler Scheduler

	// Logger receives maintenance and lifecycle events.
	// Defaults to zap.NewNop().
	Logger *zap.Logger
}

func (c Config[T]) Validate() error {
	if c.Factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}
	if c.MinIdle < 0 {
		return fmt.Errorf("min idle cannot be negative: given %d", c.MinIdle)
	}
	if c.MaxIdle < c.MinIdle {
		return fmt.Errorf("max idle must be at least min idle: given min=%d max=%d",
			c.MinIdle, c.MaxIdle,
		)
	}
	if c.ValidationInterval < 0 {
		return fmt.Errorf("validation interval cannot be negative: given %s", c.ValidationInterval)
	}
	return nil
}

// withDefaults returns a copy of c with zero-value fields replaced by their
// defaults. It assumes c has already been validated.
func (c Config[T]) withDefaults() Config[T] {
	if c.ValidationInterval == 0 {
		c.ValidationInterval = DefaultValidationInterval
	}
	if c.Scheduler == nil {
		c.Scheduler = TickerScheduler{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
