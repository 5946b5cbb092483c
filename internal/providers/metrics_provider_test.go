package providers

import (
	"testing"
	"time"

	"adoptwatch/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withIsolatedRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGath := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGath
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetRecordsTotal("favorites", 10)
	m.IncStorageWriteFailures("favorites")
	m.AddDroppedRecords("favorites", 1)
	m.AddExpiredRecords("favorites", 1)
	m.IncFallback("list", "cached")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	withIsolatedRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	withIsolatedRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	mp, ok := m.(*MetricsProvider)
	require.True(t, ok)

	m.IncRequestsTotal("/favorites", 200)
	m.IncRequestsTotal("/favorites", 404)
	m.ObserveRequestDuration("/favorites", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.SetRecordsTotal("favorites", 42)
	m.IncStorageWriteFailures("favorites")
	m.AddDroppedRecords("checklists", 2)
	m.AddDroppedRecords("checklists", 0)
	m.AddExpiredRecords("seen", 3)
	m.IncFallback("list", "cached")

	assert.Equal(t, float64(1), testutil.ToFloat64(mp.cacheHits))
	assert.Equal(t, float64(42), testutil.ToFloat64(mp.recordsTotal.WithLabelValues("favorites")))
	assert.Equal(t, float64(2), testutil.ToFloat64(mp.droppedRecords.WithLabelValues("checklists")))
	assert.Equal(t, float64(3), testutil.ToFloat64(mp.expiredRecords.WithLabelValues("seen")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.fallbacks.WithLabelValues("list", "cached")))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
