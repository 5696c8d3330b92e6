package dto

import (
	"time"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// CourseFilter captures the query parameters of GET /courses/all and /courses/export.
type CourseFilter struct {
	GE         string `form:"ge"`
	Subject    string `form:"subject"`
	Status     string `form:"status"`
	Instructor string `form:"instructor"`
	Search     string `form:"q"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=500"`
}

// GroupedCourses is the GE keyed view served by GET /courses.
type GroupedCourses struct {
	Courses    map[string][]models.MergedCourseRecord `json:"courses"`
	LastUpdate *time.Time                             `json:"last_update"`
}

// LastUpdateResponse reports when the published generation was built.
type LastUpdateResponse struct {
	LastUpdate   *time.Time `json:"last_update"`
	GenerationID string     `json:"generation_id,omitempty"`
}

// PrerequisiteResponse is returned by GET /prereq/:code.
type PrerequisiteResponse struct {
	Code          string                        `json:"code"`
	Prerequisites models.PrerequisiteExpression `json:"prerequisites"`
}

// ExportFile is a rendered course export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
