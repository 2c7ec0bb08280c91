package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	feedDepth   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsewatch_events_total",
				Help: "Total number of anomaly events accepted into the feed",
			},
			[]string{"market", "type", "severity"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsewatch_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		feedDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulsewatch_feed_depth",
				Help: "Current number of events retained per market feed",
			},
			[]string{"market"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsewatch_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvent records an accepted anomaly event.
func (r *Recorder) RecordEvent(market, typ, severity string) {
	r.eventsTotal.WithLabelValues(market, typ, severity).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordFeedDepth records the retained event count for a market.
func (r *Recorder) RecordFeedDepth(market string, depth int) {
	r.feedDepth.WithLabelValues(market).Set(float64(depth))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
