package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	finalScore     *prometheus.GaugeVec
	degraded       *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsecast_forecasts_total",
				Help: "Total number of forecasts produced",
			},
			[]string{"symbol", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		finalScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulsecast_final_score",
				Help: "Last composite forecast score for a symbol",
			},
			[]string{"symbol"},
		),
		degraded: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulsecast_degraded_indicators",
				Help: "Number of indicators that degraded to no-data in the last evaluation",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records a produced forecast by direction.
func (r *Recorder) RecordForecast(symbol, direction string) {
	r.forecastsTotal.WithLabelValues(symbol, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the last composite score for a symbol.
func (r *Recorder) RecordScore(symbol string, score float64) {
	r.finalScore.WithLabelValues(symbol).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordDegraded records how many indicators fell back to no-data.
func (r *Recorder) RecordDegraded(symbol string, n int) {
	r.degraded.WithLabelValues(symbol).Set(float64(n))
}
