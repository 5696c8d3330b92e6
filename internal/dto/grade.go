package dto

import "github.com/noah-isme/slugtistics-api/internal/models"

// DistributionQuery filters a summed grade distribution.
type DistributionQuery struct {
	Term       string `form:"term"`
	Instructor string `form:"instructor"`
}

// DistributionResponse is a summed grade distribution with its GPA.
type DistributionResponse struct {
	Code        string                   `json:"code"`
	Term        string                   `json:"term,omitempty"`
	Instructor  string                   `json:"instructor,omitempty"`
	Grades      models.GradeDistribution `json:"grades"`
	Students    int                      `json:"students"`
	GPA         models.GPA               `json:"gpa"`
	HistoryRows int                      `json:"history_rows"`
}

// GPAResponse is the resolved GPA for a course and optional instructor.
type GPAResponse struct {
	Code       string     `json:"code"`
	Instructor string     `json:"instructor,omitempty"`
	GPA        models.GPA `json:"gpa"`
}
