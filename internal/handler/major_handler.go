package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/response"
)

type majorService interface {
	List(ctx context.Context) ([]models.MajorSummary, error)
	Courses(ctx context.Context, name string) (*dto.MajorCoursesResponse, error)
	Groups(ctx context.Context, name string) ([]models.RequirementGroup, error)
	Progress(ctx context.Context, name string, req dto.ProgressRequest) (*models.MajorProgress, error)
	Recommend(ctx context.Context, query dto.RecommendationQuery) (*dto.RecommendationResponse, error)
	Upload(ctx context.Context, name string, major *models.Major) (models.MajorSummary, error)
}

// MajorHandler exposes major requirement endpoints.
type MajorHandler struct {
	majors majorService
}

// NewMajorHandler constructs a MajorHandler.
func NewMajorHandler(majors majorService) *MajorHandler {
	return &MajorHandler{majors: majors}
}

// List godoc
// @Summary Available majors
// @Tags Majors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /majors [get]
func (h *MajorHandler) List(c *gin.Context) {
	majors, err := h.majors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, majors, nil)
}

// Courses godoc
// @Summary Every course code named by a major
// @Tags Majors
// @Produce json
// @Param major path string true "Major filename, e.g. computer_science_bs_2024"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /majors/{major}/courses [get]
func (h *MajorHandler) Courses(c *gin.Context) {
	courses, err := h.majors.Courses(c.Request.Context(), c.Param("major"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Groups godoc
// @Summary Requirement groups of a major
// @Tags Majors
// @Produce json
// @Param major path string true "Major filename"
// @Success 200 {object} response.Envelope
// @Router /majors/{major}/groups [get]
func (h *MajorHandler) Groups(c *gin.Context) {
	groups, err := h.majors.Groups(c.Request.Context(), c.Param("major"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Progress godoc
// @Summary Mark a transcript against a major
// @Tags Majors
// @Accept json
// @Produce json
// @Param major path string true "Major filename"
// @Param payload body dto.ProgressRequest true "Classes taken"
// @Success 200 {object} response.Envelope
// @Router /majors/{major}/progress [post]
func (h *MajorHandler) Progress(c *gin.Context) {
	var req dto.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	progress, err := h.majors.Progress(c.Request.Context(), c.Param("major"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Recommendations godoc
// @Summary Major classes whose prerequisites are satisfied
// @Tags Majors
// @Produce json
// @Param classes query string false "Comma separated classes taken"
// @Param major query string false "Major filename; defaults to the configured major"
// @Success 200 {object} response.Envelope
// @Router /majors/recommendations [get]
func (h *MajorHandler) Recommendations(c *gin.Context) {
	var query dto.RecommendationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	recs, err := h.majors.Recommend(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil)
}

// Upload godoc
// @Summary Create or replace a major document
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param major path string true "Major filename"
// @Param payload body models.Major true "Major document"
// @Success 201 {object} response.Envelope
// @Router /admin/majors/{major} [put]
func (h *MajorHandler) Upload(c *gin.Context) {
	var major models.Major
	if err := c.ShouldBindJSON(&major); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid major document"))
		return
	}
	summary, err := h.majors.Upload(c.Request.Context(), c.Param("major"), &major)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}
