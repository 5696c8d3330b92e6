package models

import "time"

// SystemMetrics is a point-in-time summary of process counters.
type SystemMetrics struct {
	CacheHitRatio            float64    `json:"cache_hit_ratio"`
	CacheHits                uint64     `json:"cache_hits"`
	CacheMisses              uint64     `json:"cache_misses"`
	RequestsTotal            uint64     `json:"requests_total"`
	AverageRequestDurationMs float64    `json:"avg_request_duration_ms"`
	RefreshSucceeded         uint64     `json:"refresh_succeeded"`
	RefreshFailed            uint64     `json:"refresh_failed"`
	LastRefreshAt            *time.Time `json:"last_refresh_at,omitempty"`
	LastRefreshCourses       int        `json:"last_refresh_courses"`
	Goroutines               int        `json:"goroutines"`
	GeneratedAt              time.Time  `json:"generated_at"`
}
