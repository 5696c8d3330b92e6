package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/pkg/response"
)

type refreshController interface {
	Enqueue(trigger models.RefreshTrigger) (string, error)
	RecentRuns(ctx context.Context, limit int) ([]models.RefreshRunView, error)
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// AdminHandler exposes refresh controls and process status to admins.
type AdminHandler struct {
	refresh refreshController
	metrics metricsSnapshotter
	logger  *zap.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(refresh refreshController, metrics metricsSnapshotter, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{refresh: refresh, metrics: metrics, logger: logger}
}

// TriggerRefresh godoc
// @Summary Queue a course refresh
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/refresh [post]
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	jobID, err := h.refresh.Enqueue(models.RefreshTriggerManual)
	if err != nil {
		response.Error(c, err)
		return
	}
	actor := ""
	if claims := middleware.AdminFromContext(c); claims != nil {
		actor = claims.Subject
	}
	h.logger.Info("manual refresh queued", zap.String("job_id", jobID), zap.String("actor", actor))
	response.Accepted(c, dto.RefreshAccepted{JobID: jobID, Status: "queued"})
}

// Runs godoc
// @Summary Latest refresh runs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of runs" default(20)
// @Success 200 {object} response.Envelope
// @Router /admin/refresh/runs [get]
func (h *AdminHandler) Runs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 20
	}
	runs, err := h.refresh.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// Metrics godoc
// @Summary Process counters summary
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *AdminHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
