// Package objpool provides a generic, self-tuning concurrent object pool.
// It amortizes expensive object construction by recycling instances across
// many concurrent borrowers while a background maintenance task keeps the
// number of idle objects within configured bounds, without caller
// involvement.
//
// Borrow and Return never block: Borrow takes an idle object or creates a
// new one on the spot, and Return hands the object back unconditionally. The
// idle set lives in a lock-free MPMC queue (bounded by default, unbounded on
// request), so callers need no external locking.
//
// Basic usage:
//
//	pool, err := objpool.New(ctx, objpool.Config[*bytes.Buffer]{
//		Factory: func(ctx context.Context) (*bytes.Buffer, error) {
//			return bytes.NewBuffer(make([]byte, 0, 4096)), nil
//		},
//		MinIdle:            2,
//		MaxIdle:            10,
//		ValidationInterval: time.Minute,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	buf, err := pool.Borrow(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Return(buf)
//
//	// Use the buffer
//	buf.Reset()
//	buf.WriteString("hello")
//
// Maintenance:
//
// Every ValidationInterval the pool inspects its approximate idle count.
// When it has fallen below MinIdle, the factory tops the pool up to MaxIdle;
// when it has grown above MaxIdle, the excess is discarded. Borrows and
// returns from other goroutines may move the count while a pass runs, so
// rebalancing is best effort rather than an exact target.
//
// The recurring schedule comes from a Scheduler supplied through the
// configuration, which makes the pool testable with a deterministic fake.
// The default TickerScheduler runs the pass on a dedicated goroutine.
package objpool
