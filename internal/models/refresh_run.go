package models

import (
	"database/sql"
	"time"
)

// RefreshStatus tracks the lifecycle of a refresh run.
type RefreshStatus string

const (
	RefreshStatusRunning   RefreshStatus = "running"
	RefreshStatusSucceeded RefreshStatus = "succeeded"
	RefreshStatusFailed    RefreshStatus = "failed"
)

// RefreshTrigger records what started a refresh run.
type RefreshTrigger string

const (
	RefreshTriggerSchedule RefreshTrigger = "schedule"
	RefreshTriggerStartup  RefreshTrigger = "startup"
	RefreshTriggerManual   RefreshTrigger = "manual"
)

// RefreshRun is the audit row written for every refresh attempt.
type RefreshRun struct {
	ID           string         `db:"id" json:"id"`
	Trigger      RefreshTrigger `db:"trigger" json:"trigger"`
	Status       RefreshStatus  `db:"status" json:"status"`
	GenerationID sql.NullString `db:"generation_id" json:"-"`
	StartedAt    time.Time      `db:"started_at" json:"started_at"`
	FinishedAt   *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
	CourseCount  int            `db:"course_count" json:"course_count"`
	SkippedCount int            `db:"skipped_count" json:"skipped_count"`
	Error        sql.NullString `db:"error" json:"-"`
}

// RefreshRunView is the API representation of a refresh run.
type RefreshRunView struct {
	RefreshRun
	GenerationID string `json:"generation_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// View flattens nullable columns for JSON output.
func (r RefreshRun) View() RefreshRunView {
	return RefreshRunView{RefreshRun: r, GenerationID: r.GenerationID.String, Error: r.Error.String}
}
