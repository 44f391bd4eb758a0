package forecast

import (
	"sync"
	"time"

	"CryptoCast/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cryptocast",
			Subsystem: "forecast",
			Name:      "latency_seconds",
			Help:      "Latency of forecast service calls by outcome",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptocast",
			Subsystem: "forecast",
			Name:      "errors_total",
			Help:      "Failed forecast service calls by error kind",
		},
		[]string{"kind"},
	)
)

func registerMetrics() {
	once.Do(func() {
		prometheus.MustRegister(upstreamLatency, upstreamErrors)
	})
}

func observeCall(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = models.ErrorKind(err)
		upstreamErrors.WithLabelValues(outcome).Inc()
	}
	upstreamLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
