// Package monitoring exposes queue and automation measurements to Prometheus.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fulfillment"

// QueueMetrics implements ports.QueueMetrics.
type QueueMetrics struct {
	queueLength        prometheus.Gauge
	recalculation      prometheus.Histogram
	transitions        *prometheus.CounterVec
	transitionFailures prometheus.Counter
	snapshotFailures   *prometheus.CounterVec
}

// NewQueueMetrics registers the collectors with registerer.
func NewQueueMetrics(registerer prometheus.Registerer) *QueueMetrics {
	factory := promauto.With(registerer)

	return &QueueMetrics{
		queueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Current number of orders in the preparation queue",
		}),
		recalculation: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_recalculation_seconds",
			Help:      "Duration of queue recalculations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Automated status transitions",
		}, []string{"from", "to"}),
		transitionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transition_failures_total",
			Help:      "Automated status transitions that could not be stored",
		}),
		snapshotFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Queue snapshot load and save failures",
		}, []string{"operation"}),
	}
}

// SetQueueLength records the current number of active orders.
func (m *QueueMetrics) SetQueueLength(n int) {
	m.queueLength.Set(float64(n))
}

// ObserveRecalculation records how long one queue recalculation took.
func (m *QueueMetrics) ObserveRecalculation(d time.Duration) {
	m.recalculation.Observe(d.Seconds())
}

// IncTransition counts a stored automatic status transition.
func (m *QueueMetrics) IncTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

// IncTransitionFailure counts a transition the automation could not store.
func (m *QueueMetrics) IncTransitionFailure() {
	m.transitionFailures.Inc()
}

// IncSnapshotFailure counts a failed snapshot load or save.
func (m *QueueMetrics) IncSnapshotFailure(operation string) {
	m.snapshotFailures.WithLabelValues(operation).Inc()
}
