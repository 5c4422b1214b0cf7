package queue_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/objpool/internal/queue"
)

func TestBounded(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := queue.NewBounded[int](4)
		for i := 0; i < 3; i++ {
			require.True(t, q.TryEnqueue(i))
		}
		for i := 0; i < 3; i++ {
			got, ok := q.TryDequeue()
			require.True(t, ok)
			assert.Equal(t, i, got)
		}
	})

	t.Run("rejects when full", func(t *testing.T) {
		q := queue.NewBounded[int](2)
		require.True(t, q.TryEnqueue(1))
		require.True(t, q.TryEnqueue(2))

		assert.False(t, q.TryEnqueue(3), "enqueue into a full queue should be rejected")
		assert.Equal(t, 2, q.Len())
	})

	t.Run("accepts again after a dequeue", func(t *testing.T) {
		q := queue.NewBounded[int](1)
		require.True(t, q.TryEnqueue(1))
		require.False(t, q.TryEnqueue(2))

		_, ok := q.TryDequeue()
		require.True(t, ok)

		assert.True(t, q.TryEnqueue(2))
	})

	t.Run("empty dequeue returns immediately", func(t *testing.T) {
		q := queue.NewBounded[int](4)
		_, ok := q.TryDequeue()
		assert.False(t, ok)
		assert.Zero(t, q.Len())
	})

	t.Run("capacity below one is raised", func(t *testing.T) {
		q := queue.NewBounded[int](0)
		assert.True(t, q.TryEnqueue(1))
	})
}

func TestUnbounded(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := queue.NewUnbounded[int]()
		for i := 0; i < 100; i++ {
			require.True(t, q.TryEnqueue(i))
		}
		require.Equal(t, 100, q.Len())
		for i := 0; i < 100; i++ {
			got, ok := q.TryDequeue()
			require.True(t, ok)
			assert.Equal(t, i, got)
		}
	})

	t.Run("never rejects", func(t *testing.T) {
		q := queue.NewUnbounded[int]()
		for i := 0; i < 10000; i++ {
			require.True(t, q.TryEnqueue(i))
		}
		assert.Equal(t, 10000, q.Len())
	})

	t.Run("empty dequeue returns immediately", func(t *testing.T) {
		q := queue.NewUnbounded[int]()
		_, ok := q.TryDequeue()
		assert.False(t, ok)

		// Drained queue behaves like a fresh one.
		require.True(t, q.TryEnqueue(1))
		got, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, 1, got)
		_, ok = q.TryDequeue()
		assert.False(t, ok)
	})
}

// TestConcurrent verifies that no item is lost or duplicated under concurrent
// producers and consumers, for both implementations.
func TestConcurrent(t *testing.T) {
	const (
		producers   = 8
		consumers   = 8
		perProducer = 1000
		totalItems  = producers * perProducer
	)

	queues := map[string]queue.Queue[int]{
		"bounded":   queue.NewBounded[int](totalItems),
		"unbounded": queue.NewUnbounded[int](),
	}

	for name, q := range queues {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for p := 0; p < producers; p++ {
				p := p
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perProducer; i++ {
						assert.True(t, q.TryEnqueue(p*perProducer+i))
					}
				}()
			}

			seen := make([]bool, totalItems)
			var mu sync.Mutex
			var received int

			var cwg sync.WaitGroup
			done := make(chan struct{})
			for cn := 0; cn < consumers; cn++ {
				cwg.Add(1)
				go func() {
					defer cwg.Done()
					for {
						item, ok := q.TryDequeue()
						if !ok {
							select {
							case <-done:
								return
							default:
								runtime.Gosched()
								continue
							}
						}
						mu.Lock()
						assert.False(t, seen[item], "item %d dequeued twice", item)
						seen[item] = true
						received++
						mu.Unlock()
					}
				}()
			}

			wg.Wait()
			// Producers are done; let consumers drain the rest then stop.
			close(done)
			cwg.Wait()

			// Anything still queued after the consumers stopped is drained here.
			for {
				item, ok := q.TryDequeue()
				if !ok {
					break
				}
				require.False(t, seen[item])
				seen[item] = true
				received++
			}

			assert.Equal(t, totalItems, received, "every produced item is consumed exactly once")
			assert.Zero(t, q.Len())
		})
	}
}
