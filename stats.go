package objpool

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// stats holds the pool's internal counters. All fields are updated with
// atomic operations only.
type stats struct {
	created     atomic.Int64
	hits        atomic.Int64
	misses      atomic.Int64
	returned    atomic.Int64
	dropped     atomic.Int64
	discarded   atomic.Int64
	topUpErrors atomic.Int64
}

// Stats is a point-in-time snapshot of a pool's counters. Because the
// counters are read one by one, the snapshot is not atomic as a whole.
type Stats struct {
	// Created is the total number of objects produced by the factory, whether
	// during construction, on a Borrow miss, or by maintenance top-ups.
	Created int64
	// Hits is the number of Borrow calls served from the idle set.
	Hits int64
	// Misses is the number of Borrow calls that had to create a new object.
	Misses int64
	// Returned is the number of objects accepted back by Return.
	Returned int64
	// Dropped is the number of objects Return or a top-up could not enqueue
	// because the bounded queue was full.
	Dropped int64
	// Discarded is the number of idle objects removed by maintenance trims.
	Discarded int64
	// TopUpErrors is the number of maintenance passes aborted by a factory
	// failure.
	TopUpErrors int64
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Created:     p.stats.created.Load(),
		Hits:        p.stats.hits.Load(),
		Misses:      p.stats.misses.Load(),
		Returned:    p.stats.returned.Load(),
		Dropped:     p.stats.dropped.Load(),
		Discarded:   p.stats.discarded.Load(),
		TopUpErrors: p.stats.topUpErrors.Load(),
	}
}

// NewCollector returns a prometheus.Collector exposing the pool's counters
// and current idle size, labeled with the pool ID. Register it with a
// prometheus registry to scrape pool health:
//
//	prometheus.MustRegister(objpool.NewCollector(pool))
func NewCollector[T comparable](pool *Pool[T]) prometheus.Collector {
	labels := prometheus.Labels{"pool_id": pool.ID().String()}
	return &collector[T]{
		pool: pool,
		idle: prometheus.NewDesc("objpool_idle_objects",
			"Number of idle objects currently held by the pool.", nil, labels),
		created: prometheus.NewDesc("objpool_created_total",
			"Total number of objects produced by the factory.", nil, labels),
		hits: prometheus.NewDesc("objpool_borrow_hits_total",
			"Borrow calls served from the idle set.", nil, labels),
		misses: prometheus.NewDesc("objpool_borrow_misses_total",
			"Borrow calls that created a new object.", nil, labels),
		returned: prometheus.NewDesc("objpool_returned_total",
			"Objects accepted back by Return.", nil, labels),
		dropped: prometheus.NewDesc("objpool_dropped_total",
			"Objects dropped because the bounded queue was full.", nil, labels),
		discarded: prometheus.NewDesc("objpool_discarded_total",
			"Idle objects removed by maintenance trims.", nil, labels),
		topUpErrors: prometheus.NewDesc("objpool_topup_errors_total",
			"Maintenance passes aborted by a factory failure.", nil, labels),
	}
}

type collector[T comparable] struct {
	pool *Pool[T]

	idle        *prometheus.Desc
	created     *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	returned    *prometheus.Desc
	dropped     *prometheus.Desc
	discarded   *prometheus.Desc
	topUpErrors *prometheus.Desc
}

var _ prometheus.Collector = (*collector[int])(nil)

func (c *collector[T]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.idle
	ch <- c.created
	ch <- c.hits
	ch <- c.misses
	ch <- c.returned
	ch <- c.dropped
	ch <- c.discarded
	ch <- c.topUpErrors
}

func (c *collector[T]) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(c.pool.Size()))
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.Created))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.returned, prometheus.CounterValue, float64(s.Returned))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(s.Discarded))
	ch <- prometheus.MustNewConstMetric(c.topUpErrors, prometheus.CounterValue, float64(s.TopUpErrors))
}
