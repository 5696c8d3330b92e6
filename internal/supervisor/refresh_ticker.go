package supervisor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

// RefreshEnqueuer queues a refresh run.
type RefreshEnqueuer interface {
	Enqueue(trigger models.RefreshTrigger) (string, error)
}

// RefreshTicker queues a course refresh on a fixed interval.
type RefreshTicker struct {
	refresh  RefreshEnqueuer
	interval time.Duration
	onStart  bool
	logger   *zap.Logger
}

// NewRefreshTicker constructs a ticker. With onStart set, one refresh is queued
// as soon as the service starts.
func NewRefreshTicker(refresh RefreshEnqueuer, interval time.Duration, onStart bool, logger *zap.Logger) *RefreshTicker {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshTicker{refresh: refresh, interval: interval, onStart: onStart, logger: logger}
}

// Serve implements suture.Service.
func (t *RefreshTicker) Serve(ctx context.Context) error {
	if t.onStart {
		t.enqueue(models.RefreshTriggerStartup)
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.enqueue(models.RefreshTriggerSchedule)
		}
	}
}

func (t *RefreshTicker) enqueue(trigger models.RefreshTrigger) {
	jobID, err := t.refresh.Enqueue(trigger)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrRefreshInProgress.Code {
			t.logger.Info("refresh already in progress, skipping tick", zap.String("trigger", string(trigger)))
			return
		}
		t.logger.Error("failed to queue refresh", zap.String("trigger", string(trigger)), zap.Error(err))
		return
	}
	t.logger.Info("refresh queued", zap.String("trigger", string(trigger)), zap.String("job_id", jobID))
}

func (t *RefreshTicker) String() string {
	return "refresh-ticker"
}
