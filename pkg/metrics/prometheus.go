package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requestsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	rows          *prometheus.HistogramVec
	latency       *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_requests_total",
				Help: "Total number of forecast requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		rows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_input_rows",
				Help:    "Number of observations per forecast request",
				Buckets: prometheus.ExponentialBuckets(8, 2, 12),
			},
			[]string{"endpoint"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_operation_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRequest counts a finished request.
func (r *Recorder) RecordRequest(endpoint, outcome string) {
	r.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRows records the size of an input batch.
func (r *Recorder) RecordRows(endpoint string, n int) {
	r.rows.WithLabelValues(endpoint).Observe(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
