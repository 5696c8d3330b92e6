package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/service"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type refreshMock struct {
	jobID     string
	err       error
	runs      []models.RefreshRunView
	lastLimit int
	triggers  []models.RefreshTrigger
}

func (m *refreshMock) Enqueue(trigger models.RefreshTrigger) (string, error) {
	m.triggers = append(m.triggers, trigger)
	return m.jobID, m.err
}

func (m *refreshMock) RecentRuns(_ context.Context, limit int) ([]models.RefreshRunView, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

type metricsMock struct{}

func (metricsMock) Snapshot() models.SystemMetrics {
	return models.SystemMetrics{CacheHits: 3, CacheMisses: 1, CacheHitRatio: 0.75}
}

func TestAdminHandlerTriggerRefresh(t *testing.T) {
	mock := &refreshMock{jobID: "job-7"}
	c, w := newGinContext(http.MethodPost, "/admin/refresh", nil)
	c.Set(middleware.ContextAdminKey, &models.AdminClaims{Scope: models.AdminScope})

	NewAdminHandler(mock, metricsMock{}, nil).TriggerRefresh(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []models.RefreshTrigger{models.RefreshTriggerManual}, mock.triggers)
	assert.JSONEq(t, `{"job_id":"job-7","status":"queued"}`, string(decodeEnvelope(t, w).Data))
}

func TestAdminHandlerTriggerRefreshConflict(t *testing.T) {
	mock := &refreshMock{err: appErrors.Clone(appErrors.ErrRefreshInProgress, "a refresh is already queued")}
	c, w := newGinContext(http.MethodPost, "/admin/refresh", nil)

	NewAdminHandler(mock, metricsMock{}, nil).TriggerRefresh(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REFRESH_IN_PROGRESS", decodeEnvelope(t, w).Error.Code)
}

func TestAdminHandlerRunsClampsLimit(t *testing.T) {
	mock := &refreshMock{runs: []models.RefreshRunView{}}
	h := NewAdminHandler(mock, metricsMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/admin/refresh/runs?limit=5", nil)
	h.Runs(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, mock.lastLimit)

	c, _ = newGinContext(http.MethodGet, "/admin/refresh/runs?limit=9999", nil)
	h.Runs(c)
	assert.Equal(t, 20, mock.lastLimit)

	mock.err = errors.New("db down")
	c, w = newGinContext(http.MethodGet, "/admin/refresh/runs", nil)
	h.Runs(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminHandlerMetricsSnapshot(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/admin/metrics", nil)

	NewAdminHandler(&refreshMock{}, metricsMock{}, nil).Metrics(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"cache_hit_ratio":0.75`)
}

type ratingMock struct {
	profile *models.RatingProfile
	hit     bool
	err     error
	last    dto.RatingQuery
}

func (m *ratingMock) Profile(_ context.Context, query dto.RatingQuery) (*models.RatingProfile, bool, error) {
	m.last = query
	return m.profile, m.hit, m.err
}

func TestRatingHandlerProfile(t *testing.T) {
	mock := &ratingMock{profile: &models.RatingProfile{Name: "Patrick Tantalo", AvgRating: 4.2}}
	c, w := newGinContext(http.MethodGet, "/instructor-ratings?instructor=Patrick+Tantalo&course=CSE101", nil)

	NewRatingHandler(mock).Profile(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.RatingQuery{Instructor: "Patrick Tantalo", Course: "CSE101"}, mock.last)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
}

func TestRatingHandlerUpstreamFailure(t *testing.T) {
	mock := &ratingMock{err: appErrors.Clone(appErrors.ErrUpstream, "ratings unavailable")}
	c, w := newGinContext(http.MethodGet, "/instructor-ratings?instructor=Jane+Lee", nil)

	NewRatingHandler(mock).Profile(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": ok, "redis": ok}).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok","redis":"ok"}}`, w.Body.String())

	c, w = newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": ok, "grades": down}).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(service.NewMetricsService(), nil).Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
