package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// RefreshRunRepository stores the audit trail of refresh attempts.
type RefreshRunRepository struct {
	db *sqlx.DB
}

// NewRefreshRunRepository constructs the repository.
func NewRefreshRunRepository(db *sqlx.DB) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

// Create inserts a running refresh row with generated defaults.
func (r *RefreshRunRepository) Create(ctx context.Context, run *models.RefreshRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.RefreshStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_runs (id, trigger, status, generation_id, started_at, finished_at, course_count, skipped_count, error)
VALUES (:id, :trigger, :status, :generation_id, :started_at, :finished_at, :course_count, :skipped_count, :error)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create refresh run: %w", err)
	}
	return nil
}

// Finish records the terminal state of a run.
func (r *RefreshRunRepository) Finish(ctx context.Context, run *models.RefreshRun) error {
	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}
	const query = `UPDATE refresh_runs SET status = :status, generation_id = :generation_id, finished_at = :finished_at,
course_count = :course_count, skipped_count = :skipped_count, error = :error WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("finish refresh run: %w", err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (r *RefreshRunRepository) ListRecent(ctx context.Context, limit int) ([]models.RefreshRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, trigger, status, generation_id, started_at, finished_at, course_count, skipped_count, error
FROM refresh_runs ORDER BY started_at DESC LIMIT $1`
	var runs []models.RefreshRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list refresh runs: %w", err)
	}
	return runs, nil
}

// FailStale marks runs left in running state by a crashed process as failed.
func (r *RefreshRunRepository) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	const query = `UPDATE refresh_runs SET status = $1, finished_at = $2, error = $3
WHERE status = $4 AND started_at < $5`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, models.RefreshStatusFailed, now, "interrupted",
		models.RefreshStatusRunning, now.Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("fail stale refresh runs: %w", err)
	}
	return res.RowsAffected()
}
