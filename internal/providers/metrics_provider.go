package providers

import (
	"time"

	"adoptwatch/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetRecordsTotal(store string, count int)
	IncStorageWriteFailures(key string)
	AddDroppedRecords(store string, count int)
	AddExpiredRecords(store string, count int)
	IncFallback(kind, state string)
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	persistenceDuration  prometheus.Histogram
	recordsTotal         *prometheus.GaugeVec
	storageWriteFailures *prometheus.CounterVec
	droppedRecords       *prometheus.CounterVec
	expiredRecords       *prometheus.CounterVec
	fallbacks            *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetRecordsTotal(store string, count int) {
	m.recordsTotal.WithLabelValues(store).Set(float64(count))
}

func (m *MetricsProvider) IncStorageWriteFailures(key string) {
	m.storageWriteFailures.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) AddDroppedRecords(store string, count int) {
	if count > 0 {
		m.droppedRecords.WithLabelValues(store).Add(float64(count))
	}
}

func (m *MetricsProvider) AddExpiredRecords(store string, count int) {
	if count > 0 {
		m.expiredRecords.WithLabelValues(store).Add(float64(count))
	}
}

func (m *MetricsProvider) IncFallback(kind, state string) {
	m.fallbacks.WithLabelValues(kind, state).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptwatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adoptwatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adoptwatch_cache_hits_total",
			Help: "Total number of key-value read cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adoptwatch_cache_misses_total",
			Help: "Total number of key-value read cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "adoptwatch_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		recordsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "adoptwatch_records_total",
			Help: "Number of live records per store after the last read",
		}, []string{"store"}),

		storageWriteFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptwatch_storage_write_failures_total",
			Help: "Writes to the host key-value store that failed and were swallowed",
		}, []string{"key"}),

		droppedRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptwatch_dropped_records_total",
			Help: "Stored records dropped because they failed validation",
		}, []string{"store"}),

		expiredRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptwatch_expired_records_total",
			Help: "Stored records purged on read because their TTL elapsed",
		}, []string{"store"}),

		fallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptwatch_fetch_outcomes_total",
			Help: "Fetch outcomes by kind and rendered state (live, cached, error)",
		}, []string{"kind", "state"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func NewNoopMetrics() MetricsProviderInterface { return &noopMetrics{} }

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetRecordsTotal(_ string, _ int)                  {}
func (n *noopMetrics) IncStorageWriteFailures(_ string)                 {}
func (n *noopMetrics) AddDroppedRecords(_ string, _ int)                {}
func (n *noopMetrics) AddExpiredRecords(_ string, _ int)                {}
func (n *noopMetrics) IncFallback(_, _ string)                          {}
