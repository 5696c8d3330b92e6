package dto

import "github.com/noah-isme/slugtistics-api/internal/models"

// ProgressRequest is the transcript posted to POST /majors/:major/progress.
type ProgressRequest struct {
	ClassesTaken []string `json:"classes_taken" validate:"required,dive,required"`
}

// RecommendationQuery captures GET /majors/recommendations.
type RecommendationQuery struct {
	Classes string `form:"classes"`
	Major   string `form:"major"`
}

// RecommendationResponse wraps the recommendation for a transcript and major.
type RecommendationResponse struct {
	Major string `json:"major"`
	models.Recommendation
}

// MajorCoursesResponse lists every course code named by a major.
type MajorCoursesResponse struct {
	Major   string   `json:"major"`
	Courses []string `json:"courses"`
}
