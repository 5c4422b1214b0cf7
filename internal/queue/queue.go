// Package queue provides the lock-free queue implementations that back an
// object pool. Two variants are available: a bounded MPMC array queue and an
// unbounded linked queue. Both are safe for arbitrary concurrent producers
// and consumers and never block.
package queue

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Queue is a non-blocking concurrent FIFO queue.
type Queue[T any] interface {
	// TryEnqueue appends item to the queue. It reports false when the queue
	// is bounded and currently full; the item is not enqueued in that case.
	TryEnqueue(item T) bool

	// TryDequeue removes and returns the oldest item in the queue. It reports
	// false immediately when the queue is empty.
	TryDequeue() (T, bool)

	// Len returns the number of items in the queue. The value is only an
	// approximation while other goroutines are enqueueing or dequeueing.
	Len() int
}

// NewBounded returns a bounded lock-free MPMC queue with the given capacity.
// A capacity below 1 is raised to 1.
func NewBounded[T any](capacity int) Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &bounded[T]{q: xsync.NewMPMCQueueOf[T](capacity)}
}

type bounded[T any] struct {
	q    *xsync.MPMCQueueOf[T]
	size atomic.Int64
}

func (b *bounded[T]) TryEnqueue(item T) bool {
	if !b.q.TryEnqueue(item) {
		return false
	}
	b.size.Add(1)
	return true
}

func (b *bounded[T]) TryDequeue() (T, bool) {
	item, ok := b.q.TryDequeue()
	if ok {
		b.size.Add(-1)
	}
	return item, ok
}

func (b *bounded[T]) Len() int {
	return int(b.size.Load())
}

// NewUnbounded returns an unbounded lock-free linked queue. TryEnqueue always
// succeeds.
func NewUnbounded[T any]() Queue[T] {
	q := &unbounded[T]{}
	sentinel := &node[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// unbounded is a Michael-Scott queue. head always points at a sentinel node;
// the first live item is head.next.
type unbounded[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	size atomic.Int64
}

func (u *unbounded[T]) TryEnqueue(item T) bool {
	n := &node[T]{value: item}
	for {
		tail := u.tail.Load()
		next := tail.next.Load()
		if tail != u.tail.Load() {
			continue
		}
		if next != nil {
			// Tail is lagging behind, help it along before retrying.
			u.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			u.tail.CompareAndSwap(tail, n)
			u.size.Add(1)
			return true
		}
	}
}

func (u *unbounded[T]) TryDequeue() (T, bool) {
	for {
		head := u.head.Load()
		tail := u.tail.Load()
		next := head.next.Load()
		if head != u.head.Load() {
			continue
		}
		if next == nil {
			var zero T
			return zero, false
		}
		if head == tail {
			// Queue is non-empty but tail has not caught up yet.
			u.tail.CompareAndSwap(tail, next)
			continue
		}
		value := next.value
		if u.head.CompareAndSwap(head, next) {
			u.size.Add(-1)
			return value, true
		}
	}
}

func (u *unbounded[T]) Len() int {
	return int(u.size.Load())
}
