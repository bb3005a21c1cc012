package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricInteractionsRecordedTotal = "interactions_recorded_total"
	MetricInteractionErrorsTotal    = "interaction_errors_total"
)

// Metrics contains Prometheus metrics for the interaction ledger.
// All operations are thread-safe.
type Metrics struct {
	recordedTotal *prometheus.CounterVec
	errorsTotal   prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		recordedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricInteractionsRecordedTotal,
			Help: "Total number of interactions recorded, by action",
		}, []string{"action"}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricInteractionErrorsTotal,
			Help: "Total number of failed interaction transactions",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.recordedTotal,
		m.errorsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordInteraction increments the recorded counter for an action.
func (m *Metrics) RecordInteraction(action string) {
	m.recordedTotal.WithLabelValues(action).Inc()
}

// RecordError increments the transaction error counter.
func (m *Metrics) RecordError() {
	m.errorsTotal.Inc()
}
