package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRequestsTotal      = "recommend_requests_total"
	MetricRequestErrors      = "recommend_request_errors_total"
	MetricRequestDuration    = "recommend_request_duration_seconds"
	MetricLastRetainedItems  = "recommend_last_retained_items"
	MetricCacheHitsTotal     = "recommend_cache_hits_total"
	MetricCacheMissesTotal   = "recommend_cache_misses_total"
)

// Metrics contains Prometheus metrics for the recommendation engine.
// All operations are thread-safe.
type Metrics struct {
	requestsTotal   prometheus.Counter
	requestErrors   prometheus.Counter
	requestDuration prometheus.Histogram
	retainedItems   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRequestsTotal,
			Help: "Total number of recommendation requests served",
		}),
		requestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRequestErrors,
			Help: "Total number of failed recommendation requests",
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRequestDuration,
			Help:    "Histogram of recommendation request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		retainedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRetainedItems,
			Help: "Number of items above the fusion threshold in the last request",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCacheHitsTotal,
			Help: "Total number of recommendation page cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCacheMissesTotal,
			Help: "Total number of recommendation page cache misses",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.requestErrors,
		m.requestDuration,
		m.retainedItems,
		m.cacheHits,
		m.cacheMisses,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one served request with its duration and the number
// of items that cleared the fusion threshold.
func (m *Metrics) RecordRequest(seconds float64, retained int) {
	m.requestsTotal.Inc()
	m.requestDuration.Observe(seconds)
	m.retainedItems.Set(float64(retained))
}

// RecordError increments the failed request counter.
func (m *Metrics) RecordError() {
	m.requestErrors.Inc()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Inc()
}
