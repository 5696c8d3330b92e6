package dto

// RatingQuery captures GET /instructor-ratings.
type RatingQuery struct {
	Instructor string `form:"instructor" validate:"required,max=120"`
	Course     string `form:"course" validate:"omitempty,max=20"`
}
