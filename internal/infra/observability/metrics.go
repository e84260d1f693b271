package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the site API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	fallbackServed  *prometheus.CounterVec
	activeStreams   prometheus.Gauge
	realtimeEvents  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vitrine_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrine_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrine_cache_hits_total",
				Help: "Total page cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrine_cache_misses_total",
				Help: "Total page cache misses.",
			},
			[]string{"cache"},
		),
		fallbackServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrine_fallback_served_total",
				Help: "Times hardcoded fallback content was served.",
			},
			[]string{"content"},
		),
		activeStreams: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vitrine_obra_streams_active",
				Help: "Currently open obra event streams.",
			},
		),
		realtimeEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrine_realtime_events_total",
				Help: "Realtime change notifications received.",
			},
			[]string{"table"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrFallback increments the fallback-content counter.
func (m *Metrics) IncrFallback(content string) {
	m.fallbackServed.WithLabelValues(content).Inc()
}

// StreamOpened / StreamClosed track open SSE streams.
func (m *Metrics) StreamOpened() { m.activeStreams.Inc() }
func (m *Metrics) StreamClosed() { m.activeStreams.Dec() }

// IncrRealtimeEvent counts received change notifications.
func (m *Metrics) IncrRealtimeEvent(table string) {
	m.realtimeEvents.WithLabelValues(table).Inc()
}

// FallbackCount returns the current fallback counter value for a content
// label. Used by tests and the health endpoint.
func (m *Metrics) FallbackCount(content string) float64 {
	return getCounterValue(m.fallbackServed, content)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
