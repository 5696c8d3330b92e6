package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type courseServiceMock struct {
	grouped    *dto.GroupedCourses
	hit        bool
	list       []models.MergedCourseRecord
	pagination *models.Pagination
	details    *models.MergedCourseRecord
	prereqs    *dto.PrerequisiteResponse
	update     *dto.LastUpdateResponse
	file       *dto.ExportFile
	err        error

	lastFilter dto.CourseFilter
	lastFormat string
	lastParam  string
}

func (m *courseServiceMock) Grouped(context.Context) (*dto.GroupedCourses, bool, error) {
	return m.grouped, m.hit, m.err
}

func (m *courseServiceMock) List(_ context.Context, filter dto.CourseFilter) ([]models.MergedCourseRecord, *models.Pagination, error) {
	m.lastFilter = filter
	return m.list, m.pagination, m.err
}

func (m *courseServiceMock) GECategories(context.Context) ([]string, error) {
	return []string{"CC", "MF"}, m.err
}

func (m *courseServiceMock) Details(_ context.Context, enrollNum string) (*models.MergedCourseRecord, error) {
	m.lastParam = enrollNum
	return m.details, m.err
}

func (m *courseServiceMock) Prerequisites(_ context.Context, code string) (*dto.PrerequisiteResponse, error) {
	m.lastParam = code
	return m.prereqs, m.err
}

func (m *courseServiceMock) LastUpdate(context.Context) (*dto.LastUpdateResponse, error) {
	return m.update, m.err
}

func (m *courseServiceMock) Export(_ context.Context, filter dto.CourseFilter, format string) (*dto.ExportFile, error) {
	m.lastFilter = filter
	m.lastFormat = format
	return m.file, m.err
}

func TestCourseHandlerGroupedSetsCacheHeader(t *testing.T) {
	updated := time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC)
	mock := &courseServiceMock{
		grouped: &dto.GroupedCourses{
			Courses:    map[string][]models.MergedCourseRecord{"CC": {{Code: "CSE 101", GPA: models.GPAOf("3.10")}}},
			LastUpdate: &updated,
		},
		hit: true,
	}
	c, w := newGinContext(http.MethodGet, "/courses", nil)

	NewCourseHandler(mock).Grouped(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")

	var data struct {
		Courses map[string][]map[string]interface{} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Courses["CC"], 1)
	assert.Equal(t, "3.10", data.Courses["CC"][0]["gpa"])
}

func TestCourseHandlerGroupedWithoutSnapshot(t *testing.T) {
	mock := &courseServiceMock{err: appErrors.ErrNoSnapshot}
	c, w := newGinContext(http.MethodGet, "/courses", nil)

	NewCourseHandler(mock).Grouped(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_SNAPSHOT", env.Error.Code)
}

func TestCourseHandlerListBindsFilter(t *testing.T) {
	mock := &courseServiceMock{
		list:       []models.MergedCourseRecord{{Code: "CSE 101"}},
		pagination: &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
	}
	c, w := newGinContext(http.MethodGet, "/courses/all?ge=CC&subject=CSE&q=algo&page=2&page_size=10", nil)

	NewCourseHandler(mock).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.CourseFilter{GE: "CC", Subject: "CSE", Search: "algo", Page: 2, PageSize: 10}, mock.lastFilter)
	env := decodeEnvelope(t, w)
	assert.NotNil(t, env.Pagination)
}

func TestCourseHandlerListRejectsBadPage(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/courses/all?page=abc", nil)

	NewCourseHandler(&courseServiceMock{}).List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerDetailsAndPrereqsUsePathParams(t *testing.T) {
	mock := &courseServiceMock{
		details: &models.MergedCourseRecord{EnrollNum: "30101"},
		prereqs: &dto.PrerequisiteResponse{Code: "CSE 101", Prerequisites: models.PrerequisiteExpression{Groups: [][]string{{"CSE 12"}}}},
	}
	h := NewCourseHandler(mock)

	c, w := newGinContext(http.MethodGet, "/courses/30101", nil)
	c.Params = gin.Params{{Key: "enrollNum", Value: "30101"}}
	h.Details(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30101", mock.lastParam)

	c, w = newGinContext(http.MethodGet, "/prereq/CSE101", nil)
	c.Params = gin.Params{{Key: "code", Value: "CSE101"}}
	h.Prerequisites(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CSE101", mock.lastParam)
}

func TestCourseHandlerExportWritesAttachment(t *testing.T) {
	mock := &courseServiceMock{file: &dto.ExportFile{Filename: "courses_20250106.csv", ContentType: "text/csv", Data: []byte("GE,Code\n")}}
	c, w := newGinContext(http.MethodGet, "/courses/export?ge=CC", nil)

	NewCourseHandler(mock).Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mock.lastFormat)
	assert.Equal(t, "CC", mock.lastFilter.GE)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "courses_20250106.csv")
	assert.Equal(t, "GE,Code\n", w.Body.String())
}

func TestCourseHandlerLastUpdate(t *testing.T) {
	mock := &courseServiceMock{update: &dto.LastUpdateResponse{}}
	c, w := newGinContext(http.MethodGet, "/last-update", nil)

	NewCourseHandler(mock).LastUpdate(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
