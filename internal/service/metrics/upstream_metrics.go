package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stockterm",
			Subsystem: "upstream",
			Name:      "latency_seconds",
			Help:      "Latency of calls to the quote and prediction services",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)

	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stockterm",
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Failed calls to the quote and prediction services",
		},
		[]string{"service", "endpoint"},
	)
)

// Register adds the upstream collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(UpstreamLatency, UpstreamErrors)
	})
}

// Observe records one upstream call that started at start.
func Observe(service, endpoint string, start time.Time, err error) {
	UpstreamLatency.WithLabelValues(service, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		UpstreamErrors.WithLabelValues(service, endpoint).Inc()
	}
}
