package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	refreshRuns        *prometheus.CounterVec
	refreshDuration    prometheus.Observer
	refreshCourses     prometheus.Gauge
	refreshSkipped     prometheus.Gauge
	refreshLastSuccess prometheus.Gauge
	upstreamTotal      *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	breakerState       *prometheus.GaugeVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	refreshSucceeded     uint64
	refreshFailed        uint64
	lastRefreshUnix      int64
	lastRefreshCourses   int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	refreshRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_refresh_runs_total",
		Help: "Course refresh runs by outcome",
	}, []string{"status"})

	refreshDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "course_refresh_duration_seconds",
		Help:    "Wall time of course refresh runs",
		Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 2400},
	})

	refreshCourses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "course_refresh_courses",
		Help: "Courses published by the last successful refresh",
	})

	refreshSkipped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "course_refresh_skipped",
		Help: "Raw courses skipped as invalid by the last refresh",
	})

	refreshLastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "course_refresh_last_success_timestamp_seconds",
		Help: "Unix time of the last successful refresh",
	})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Calls to the catalog and ratings services by outcome",
	}, []string{"target", "outcome"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to the catalog and ratings services",
		Buckets: prometheus.DefBuckets,
	}, []string{"target"})

	breakerState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration, refreshRuns, refreshDuration, refreshCourses, refreshSkipped, refreshLastSuccess,
		upstreamTotal, upstreamDuration, breakerState, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
		refreshRuns:        refreshRuns,
		refreshDuration:    refreshDuration,
		refreshCourses:     refreshCourses,
		refreshSkipped:     refreshSkipped,
		refreshLastSuccess: refreshLastSuccess,
		upstreamTotal:      upstreamTotal,
		upstreamDuration:   upstreamDuration,
		breakerState:       breakerState,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveRefresh records the outcome of a finished refresh run.
func (m *MetricsService) ObserveRefresh(run models.RefreshRun, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshRuns.WithLabelValues(string(run.Status)).Inc()
	m.refreshDuration.Observe(duration.Seconds())
	m.refreshSkipped.Set(float64(run.SkippedCount))
	if run.Status != models.RefreshStatusSucceeded {
		atomic.AddUint64(&m.refreshFailed, 1)
		return
	}
	atomic.AddUint64(&m.refreshSucceeded, 1)
	now := time.Now()
	if run.FinishedAt != nil {
		now = *run.FinishedAt
	}
	atomic.StoreInt64(&m.lastRefreshUnix, now.Unix())
	atomic.StoreInt64(&m.lastRefreshCourses, int64(run.CourseCount))
	m.refreshCourses.Set(float64(run.CourseCount))
	m.refreshLastSuccess.Set(float64(now.Unix()))
}

// ObserveUpstream records one call to an external service.
func (m *MetricsService) ObserveUpstream(target, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(target, outcome).Inc()
	m.upstreamDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// SetBreakerState exports a circuit breaker state transition.
func (m *MetricsService) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

// Snapshot returns aggregated metrics for the admin status endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	snapshot := models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		RefreshSucceeded:         atomic.LoadUint64(&m.refreshSucceeded),
		RefreshFailed:            atomic.LoadUint64(&m.refreshFailed),
		LastRefreshCourses:       int(atomic.LoadInt64(&m.lastRefreshCourses)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
	if unix := atomic.LoadInt64(&m.lastRefreshUnix); unix > 0 {
		last := time.Unix(unix, 0).UTC()
		snapshot.LastRefreshAt = &last
	}
	return snapshot
}
