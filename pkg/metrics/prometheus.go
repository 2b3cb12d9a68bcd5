package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsPublished *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	searches        *prometheus.CounterVec
	equity          prometheus.Gauge
}

// New registers the collectors with the default registry. Call it once per process.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		eventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockterm_events_published_total",
				Help: "Holding events handed to the event publisher",
			},
			[]string{"type"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockterm_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockterm_last_price",
				Help: "Last polled price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockterm_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		searches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockterm_search_queries_total",
				Help: "Symbol searches by outcome",
			},
			[]string{"state"},
		),
		equity: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockterm_portfolio_equity",
			Help: "Total equity at the last valuation",
		}),
	}
}

func (r *Recorder) RecordPublished(eventType string) {
	r.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordSearch(state string) {
	r.searches.WithLabelValues(state).Inc()
}

func (r *Recorder) RecordEquity(value float64) {
	r.equity.Set(value)
}

// Nop satisfies the same interface and records nothing.
type Nop struct{}

func (Nop) RecordPublished(string)          {}
func (Nop) RecordError(string)              {}
func (Nop) RecordLastPrice(string, float64) {}
func (Nop) RecordLatency(string, float64)   {}
func (Nop) RecordSearch(string)             {}
func (Nop) RecordEquity(float64)            {}
