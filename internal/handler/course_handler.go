package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/response"
)

type courseReader interface {
	Grouped(ctx context.Context) (*dto.GroupedCourses, bool, error)
	List(ctx context.Context, filter dto.CourseFilter) ([]models.MergedCourseRecord, *models.Pagination, error)
	GECategories(ctx context.Context) ([]string, error)
	Details(ctx context.Context, enrollNum string) (*models.MergedCourseRecord, error)
	Prerequisites(ctx context.Context, code string) (*dto.PrerequisiteResponse, error)
	LastUpdate(ctx context.Context) (*dto.LastUpdateResponse, error)
	Export(ctx context.Context, filter dto.CourseFilter, format string) (*dto.ExportFile, error)
}

// CourseHandler serves the published course snapshot.
type CourseHandler struct {
	courses courseReader
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses courseReader) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Grouped godoc
// @Summary Courses grouped by GE category
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Grouped(c *gin.Context) {
	start := time.Now()
	grouped, hit, err := h.courses.Grouped(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, grouped, nil, meta)
}

// List godoc
// @Summary Filtered course list
// @Tags Courses
// @Produce json
// @Param ge query string false "GE category"
// @Param subject query string false "Subject prefix, e.g. CSE"
// @Param status query string false "Class status, e.g. Open"
// @Param instructor query string false "Instructor name fragment"
// @Param q query string false "Search code or title"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 500)"
// @Success 200 {object} response.Envelope
// @Router /courses/all [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter, ok := bindCourseFilter(c)
	if !ok {
		return
	}
	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// GECategories godoc
// @Summary GE categories present in the snapshot
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/ge [get]
func (h *CourseHandler) GECategories(c *gin.Context) {
	categories, err := h.courses.GECategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Details godoc
// @Summary Course offering by enrollment number
// @Tags Courses
// @Produce json
// @Param enrollNum path string true "Enrollment number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{enrollNum} [get]
func (h *CourseHandler) Details(c *gin.Context) {
	course, err := h.courses.Details(c.Request.Context(), c.Param("enrollNum"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Prerequisites godoc
// @Summary Parsed prerequisites of a course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code, e.g. CSE101"
// @Success 200 {object} response.Envelope
// @Router /prereq/{code} [get]
func (h *CourseHandler) Prerequisites(c *gin.Context) {
	prereqs, err := h.courses.Prerequisites(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prereqs, nil)
}

// LastUpdate godoc
// @Summary Time of the last completed refresh
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /last-update [get]
func (h *CourseHandler) LastUpdate(c *gin.Context) {
	update, err := h.courses.LastUpdate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, update, nil)
}

// Export godoc
// @Summary Export the filtered course list
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param ge query string false "GE category"
// @Param subject query string false "Subject prefix"
// @Success 200 {file} file
// @Router /courses/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	filter, ok := bindCourseFilter(c)
	if !ok {
		return
	}
	file, err := h.courses.Export(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func bindCourseFilter(c *gin.Context) (dto.CourseFilter, bool) {
	var filter dto.CourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return filter, false
	}
	return filter, true
}
