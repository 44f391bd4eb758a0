package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	historySize prometheus.Gauge
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptocast_predictions_total",
				Help: "Total number of successful predictions",
			},
			[]string{"crypto", "model"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptocast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptocast_last_predicted_price",
				Help: "First-day predicted price of the latest prediction per cryptocurrency",
			},
			[]string{"crypto"},
		),
		historySize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cryptocast_history_size",
				Help: "Number of predictions held in history",
			},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptocast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction counts a successful prediction.
func (r *Recorder) RecordPrediction(crypto, model string) {
	r.predictions.WithLabelValues(crypto, model).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the latest first-day predicted price for a cryptocurrency.
func (r *Recorder) RecordLastPrice(crypto string, price float64) {
	r.lastPrice.WithLabelValues(crypto).Set(price)
}

// RecordHistorySize records the number of stored predictions.
func (r *Recorder) RecordHistorySize(n int) {
	r.historySize.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
