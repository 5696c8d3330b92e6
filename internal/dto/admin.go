package dto

import "time"

// RefreshAccepted is returned when a manual refresh is queued.
type RefreshAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// AdminToken is a minted admin bearer token.
type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
