package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/response"
)

type ratingLookup interface {
	Profile(ctx context.Context, query dto.RatingQuery) (*models.RatingProfile, bool, error)
}

// RatingHandler serves on-demand instructor ratings.
type RatingHandler struct {
	ratings ratingLookup
}

// NewRatingHandler constructs a RatingHandler.
func NewRatingHandler(ratings ratingLookup) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// Profile godoc
// @Summary Detailed rating profile of an instructor
// @Tags Ratings
// @Produce json
// @Param instructor query string true "Instructor full name"
// @Param course query string false "Course code used to pick between namesakes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /instructor-ratings [get]
func (h *RatingHandler) Profile(c *gin.Context) {
	var query dto.RatingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	profile, hit, err := h.ratings.Profile(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, profile, nil, middleware.ExtractMeta(c))
}
