package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Item outcomes recorded by Metrics.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Metrics holds the Prometheus collectors updated by the Dispatcher.
type Metrics struct {
	batches  *prometheus.CounterVec
	items    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	workers  *prometheus.GaugeVec
}

// NewMetrics creates the dispatch collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablestress",
			Subsystem: "dispatch",
			Name:      "batches_total",
			Help:      "Dispatch batches started, by operation.",
		}, []string{"op"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablestress",
			Subsystem: "dispatch",
			Name:      "items_total",
			Help:      "Work items processed, by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tablestress",
			Subsystem: "dispatch",
			Name:      "item_duration_seconds",
			Help:      "Time spent applying an operation to one work item.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"op"}),
		workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tablestress",
			Subsystem: "dispatch",
			Name:      "active_workers",
			Help:      "Workers currently processing a partition.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.batches, m.items, m.duration, m.workers)
	return m
}

func (m *Metrics) batchStarted(op string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(op).Inc()
}

func (m *Metrics) workerStarted(op string) {
	if m == nil {
		return
	}
	m.workers.WithLabelValues(op).Inc()
}

func (m *Metrics) workerDone(op string) {
	if m == nil {
		return
	}
	m.workers.WithLabelValues(op).Dec()
}

func (m *Metrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) skipped(op string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.items.WithLabelValues(op, OutcomeSkipped).Add(float64(n))
}
