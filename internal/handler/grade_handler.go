package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/pkg/response"
)

type gradeReader interface {
	Classes(ctx context.Context) ([]string, error)
	Instructors(ctx context.Context, code, term string) ([]string, error)
	Quarters(ctx context.Context, code, instructor string) ([]string, error)
	Distribution(ctx context.Context, code string, query dto.DistributionQuery) (*dto.DistributionResponse, error)
	ClassInfo(ctx context.Context, code string) ([]models.GradeHistoryRow, error)
	GPA(ctx context.Context, code, instructor string) (*dto.GPAResponse, error)
}

// GradeHandler exposes the historical grade endpoints.
type GradeHandler struct {
	grades gradeReader
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades gradeReader) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Classes godoc
// @Summary Course codes with grade history
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/classes [get]
func (h *GradeHandler) Classes(c *gin.Context) {
	classes, err := h.grades.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Instructors godoc
// @Summary Instructors who taught a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Param term query string false "Term, e.g. Fall 2023"
// @Success 200 {object} response.Envelope
// @Router /grades/{code}/instructors [get]
func (h *GradeHandler) Instructors(c *gin.Context) {
	instructors, err := h.grades.Instructors(c.Request.Context(), c.Param("code"), c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Quarters godoc
// @Summary Terms a course was offered, newest first
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Param instructor query string false "Instructor"
// @Success 200 {object} response.Envelope
// @Router /grades/{code}/quarters [get]
func (h *GradeHandler) Quarters(c *gin.Context) {
	terms, err := h.grades.Quarters(c.Request.Context(), c.Param("code"), c.Query("instructor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Distribution godoc
// @Summary Summed grade distribution and GPA
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Param term query string false "Term"
// @Param instructor query string false "Instructor"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades/{code}/distribution [get]
func (h *GradeHandler) Distribution(c *gin.Context) {
	query := dto.DistributionQuery{Term: c.Query("term"), Instructor: c.Query("instructor")}
	dist, err := h.grades.Distribution(c.Request.Context(), c.Param("code"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}

// ClassInfo godoc
// @Summary Every grade history row of a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /grades/{code}/class-info [get]
func (h *GradeHandler) ClassInfo(c *gin.Context) {
	history, err := h.grades.ClassInfo(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// GPA godoc
// @Summary Resolved GPA of a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Param instructor query string false "Instructor"
// @Success 200 {object} response.Envelope
// @Router /grades/{code}/gpa [get]
func (h *GradeHandler) GPA(c *gin.Context) {
	resp, err := h.grades.GPA(c.Request.Context(), c.Param("code"), c.Query("instructor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
