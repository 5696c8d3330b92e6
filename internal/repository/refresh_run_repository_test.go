package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

func TestRefreshRunRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewRefreshRunRepository(db)

	mock.ExpectExec("INSERT INTO refresh_runs").
		WithArgs(sqlmock.AnyArg(), "manual", "running", nil, sqlmock.AnyArg(), nil, 0, 0, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.RefreshRun{Trigger: models.RefreshTriggerManual}
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, models.RefreshStatusRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRunRepositoryFinish(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewRefreshRunRepository(db)

	mock.ExpectExec("UPDATE refresh_runs SET status").
		WithArgs("succeeded", "gen-1", sqlmock.AnyArg(), 120, 3, nil, "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	run := &models.RefreshRun{
		ID:           "run-1",
		Status:       models.RefreshStatusSucceeded,
		GenerationID: sql.NullString{String: "gen-1", Valid: true},
		CourseCount:  120,
		SkippedCount: 3,
	}
	require.NoError(t, repo.Finish(context.Background(), run))
	require.NotNil(t, run.FinishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRunRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewRefreshRunRepository(db)

	started := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "trigger", "status", "generation_id", "started_at", "finished_at",
		"course_count", "skipped_count", "error"}).
		AddRow("run-2", "schedule", "failed", nil, started, started.Add(time.Minute), 0, 0, "catalog returned no courses").
		AddRow("run-1", "startup", "succeeded", "gen-1", started.Add(-time.Hour), started.Add(-50*time.Minute), 900, 2, nil)
	mock.ExpectQuery("SELECT id, trigger, status").WithArgs(5).WillReturnRows(rows)

	runs, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, models.RefreshStatusFailed, runs[0].Status)
	assert.Equal(t, "catalog returned no courses", runs[0].View().Error)
	assert.Equal(t, "gen-1", runs[1].View().GenerationID)
	assert.Equal(t, 900, runs[1].CourseCount)
}

func TestRefreshRunRepositoryFailStale(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewRefreshRunRepository(db)

	mock.ExpectExec("UPDATE refresh_runs SET status").
		WithArgs("failed", sqlmock.AnyArg(), "interrupted", "running", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.FailStale(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
