// Package metrics exposes the ledger counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	volumeTotal          *prometheus.CounterVec
	abortedTotal         *prometheus.CounterVec
	reconciliationsTotal *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

// NewCollector registers the ledger metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofo",
				Subsystem: "transfer",
				Name:      "requests_total",
				Help:      "Transfer engine operations partitioned by kind and result.",
			},
			[]string{"kind", "result"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ofo",
				Subsystem: "transfer",
				Name:      "duration_seconds",
				Help:      "Transfer engine operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		volumeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofo",
				Subsystem: "transfer",
				Name:      "volume_minor_total",
				Help:      "Committed amounts in minor units.",
			},
			[]string{"kind"},
		),
		abortedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofo",
				Subsystem: "transfer",
				Name:      "aborted_total",
				Help:      "Aborted operations partitioned by the stage reached.",
			},
			[]string{"kind", "stage"},
		),
		reconciliationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofo",
				Subsystem: "ledger",
				Name:      "reconciliation_required_total",
				Help:      "Operations that need manual reconciliation.",
			},
			[]string{"reason"},
		),
		notificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofo",
				Subsystem: "notification",
				Name:      "failures_total",
				Help:      "Failed post-commit deliveries.",
			},
			[]string{"channel"},
		),
	}
}

func (c *Collector) RecordOperationResult(kind, result string) {
	c.requestsTotal.WithLabelValues(kind, result).Inc()
}

func (c *Collector) RecordOperationDuration(kind string, d time.Duration) {
	c.requestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (c *Collector) RecordVolume(kind string, amount int64) {
	c.volumeTotal.WithLabelValues(kind).Add(float64(amount))
}

func (c *Collector) RecordAbort(kind, stage string) {
	c.abortedTotal.WithLabelValues(kind, stage).Inc()
}

func (c *Collector) RecordReconciliation(reason string) {
	c.reconciliationsTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordNotificationFailure(channel string) {
	c.notificationFailures.WithLabelValues(channel).Inc()
}
