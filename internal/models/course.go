package models

import "time"

// StaffInstructor is the placeholder used when a section has no named instructor.
const StaffInstructor = "Staff"

// DefaultSchedule is used for sections without a meeting time.
const DefaultSchedule = "Asynchronous"

// DiscussionSection is a lab or discussion attached to a lecture offering.
type DiscussionSection struct {
	Code        string `json:"code"`
	EnrollNum   string `json:"enroll_num"`
	Schedule    string `json:"schedule"`
	Instructor  string `json:"instructor"`
	Location    string `json:"location"`
	ClassCount  string `json:"class_count"`
	WaitCount   string `json:"wait_count"`
	ClassStatus string `json:"class_status"`
}

// RawCourse is one offering as produced by the class search scraper.
type RawCourse struct {
	GE                 string              `json:"ge"`
	Code               string              `json:"code" validate:"required"`
	Name               string              `json:"name"`
	Instructor         string              `json:"instructor"`
	Link               string              `json:"link"`
	ClassCount         string              `json:"class_count"`
	EnrollNum          string              `json:"enroll_num"`
	ClassType          string              `json:"class_type"`
	Schedule           string              `json:"schedule"`
	Location           string              `json:"location"`
	ClassStatus        string              `json:"class_status"`
	Description        string              `json:"description"`
	ClassNotes         string              `json:"class_notes"`
	EnrollmentReqs     string              `json:"enrollment_reqs"`
	DiscussionSections []DiscussionSection `json:"discussion_sections"`
	Credits            string              `json:"credits"`
	Career             string              `json:"career"`
	Grading            string              `json:"grading"`
	CourseType         string              `json:"course_type"`
}

// MergedCourseRecord is the denormalized per-offering record published by a refresh.
type MergedCourseRecord struct {
	GE                 string                 `json:"ge"`
	Code               string                 `json:"code"`
	Subject            string                 `json:"subject"`
	CatalogNum         string                 `json:"catalog_num"`
	Name               string                 `json:"name"`
	Instructor         string                 `json:"instructor"`
	Link               string                 `json:"link"`
	ClassCount         string                 `json:"class_count"`
	EnrollNum          string                 `json:"enroll_num"`
	ClassType          string                 `json:"class_type"`
	Schedule           string                 `json:"schedule"`
	Location           string                 `json:"location"`
	ClassStatus        string                 `json:"class_status"`
	Description        string                 `json:"description"`
	ClassNotes         string                 `json:"class_notes"`
	EnrollmentReqs     string                 `json:"enrollment_reqs"`
	HasEnrollmentReqs  bool                   `json:"has_enrollment_reqs"`
	DiscussionSections []DiscussionSection    `json:"discussion_sections"`
	Credits            string                 `json:"credits"`
	Career             string                 `json:"career"`
	Grading            string                 `json:"grading"`
	CourseType         string                 `json:"course_type"`
	GPA                GPA                    `json:"gpa"`
	InstructorRatings  *RatingProfile         `json:"instructor_ratings"`
	Prerequisites      PrerequisiteExpression `json:"prerequisites"`
}

// CourseSnapshot is the last completed generation of merged records.
type CourseSnapshot struct {
	GenerationID string               `json:"generation_id"`
	UpdatedAt    time.Time            `json:"last_update"`
	Courses      []MergedCourseRecord `json:"courses"`
}

// Generation describes a published set of course records.
type Generation struct {
	ID          string    `db:"id" json:"id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	CourseCount int       `db:"course_count" json:"course_count"`
	Active      bool      `db:"active" json:"active"`
}
