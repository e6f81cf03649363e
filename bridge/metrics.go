package bridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeOK = "ok"

type metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, live func() float64) *metrics {
	factory := promauto.With(reg)
	m := &metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rosu",
			Subsystem: "bridge",
			Name:      "calls_total",
			Help:      "Bridge operations by outcome (ok or error kind).",
		}, []string{"op", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rosu",
			Subsystem: "bridge",
			Name:      "call_duration_seconds",
			Help:      "Bridge operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "rosu",
		Subsystem: "bridge",
		Name:      "live_handles",
		Help:      "Handles allocated and not yet released.",
	}, live)
	return m
}

func (m *metrics) observe(op, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
