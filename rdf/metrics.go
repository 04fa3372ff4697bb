package rdf

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// storeMetrics holds the Prometheus metrics of one World.
type storeMetrics struct {
	once sync.Once
	reg  prometheus.Registerer

	added     prometheus.Counter
	removed   prometheus.Counter
	queries   prometheus.Counter
	failures  prometheus.Counter
	queryTime prometheus.Histogram
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	return &storeMetrics{reg: reg}
}

func (m *storeMetrics) init() {
	m.once.Do(func() {
		m.added = prometheus.NewCounter(prometheus.CounterOpts{Name: "rdfstore_statements_added_total", Help: "Statements inserted into stores"})
		m.removed = prometheus.NewCounter(prometheus.CounterOpts{Name: "rdfstore_statements_removed_total", Help: "Statements removed from stores"})
		m.queries = prometheus.NewCounter(prometheus.CounterOpts{Name: "rdfstore_queries_total", Help: "Pattern queries evaluated"})
		m.failures = prometheus.NewCounter(prometheus.CounterOpts{Name: "rdfstore_storage_failures_total", Help: "Fatal storage failures"})

		buckets := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
		m.queryTime = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "rdfstore_query_seconds", Help: "Pattern query duration", Buckets: buckets})

		if m.reg != nil {
			m.reg.MustRegister(m.added, m.removed, m.queries, m.failures, m.queryTime)
		}
	})
}

func (m *storeMetrics) recordAdded(n int) {
	m.init()
	m.added.Add(float64(n))
}

func (m *storeMetrics) recordRemoved(n int) {
	m.init()
	m.removed.Add(float64(n))
}

func (m *storeMetrics) recordQuery(start time.Time) {
	m.init()
	m.queries.Inc()
	m.queryTime.Observe(time.Since(start).Seconds())
}

func (m *storeMetrics) recordFailure() {
	m.init()
	m.failures.Inc()
}
