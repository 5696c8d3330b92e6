package models

// CourseTaught is a course code counted on a ratings profile.
type CourseTaught struct {
	CourseName  string `json:"courseName"`
	CourseCount int    `json:"courseCount"`
}

// RatingsDistribution holds the 1-5 star buckets of a profile.
type RatingsDistribution struct {
	R1 int `json:"r1"`
	R2 int `json:"r2"`
	R3 int `json:"r3"`
	R4 int `json:"r4"`
	R5 int `json:"r5"`
}

// Buckets returns the distribution as an ordered slice.
func (d RatingsDistribution) Buckets() []int {
	return []int{d.R1, d.R2, d.R3, d.R4, d.R5}
}

// CandidateRating is a single review as returned by the ratings search.
type CandidateRating struct {
	Class               string  `json:"class"`
	Date                string  `json:"date"`
	Comment             string  `json:"comment"`
	HelpfulRating       float64 `json:"helpfulRating"`
	ClarityRating       float64 `json:"clarityRating"`
	DifficultyRating    float64 `json:"difficultyRating"`
	ThumbsUpTotal       int     `json:"thumbsUpTotal"`
	ThumbsDownTotal     int     `json:"thumbsDownTotal"`
	WouldTakeAgain      *int    `json:"wouldTakeAgain"`
	IsForCredit         bool    `json:"isForCredit"`
	IsForOnlineClass    bool    `json:"isForOnlineClass"`
	AttendanceMandatory string  `json:"attendanceMandatory"`
	RatingTags          string  `json:"ratingTags"`
	FlagStatus          string  `json:"flagStatus"`
	TextbookUse         *int    `json:"textbookUse"`
}

// ProfessorCandidate is one profile returned by a ratings search query.
type ProfessorCandidate struct {
	ID                    string              `json:"id"`
	FirstName             string              `json:"firstName"`
	LastName              string              `json:"lastName"`
	Department            string              `json:"department"`
	AvgRating             float64             `json:"avgRating"`
	AvgDifficulty         float64             `json:"avgDifficulty"`
	NumRatings            int                 `json:"numRatings"`
	WouldTakeAgainPercent float64             `json:"wouldTakeAgainPercent"`
	CourseCodes           []CourseTaught      `json:"courseCodes"`
	RatingsDistribution   RatingsDistribution `json:"ratingsDistribution"`
	Ratings               []CandidateRating   `json:"-"`
}

// ProfessorRating is a review attached to a resolved rating profile.
type ProfessorRating struct {
	ClassName           string   `json:"class_name"`
	Date                string   `json:"date"`
	HelpfulRating       float64  `json:"helpful_rating"`
	ClarityRating       float64  `json:"clarity_rating"`
	DifficultyRating    float64  `json:"difficulty_rating"`
	OverallRating       float64  `json:"overall_rating"`
	Comment             string   `json:"comment"`
	ThumbsUp            int      `json:"thumbs_up"`
	ThumbsDown          int      `json:"thumbs_down"`
	WouldTakeAgain      bool     `json:"would_take_again"`
	IsOnline            bool     `json:"is_online"`
	IsForCredit         bool     `json:"is_for_credit"`
	AttendanceMandatory string   `json:"attendance_mandatory"`
	TextbookUse         *int     `json:"textbook_use"`
	Tags                []string `json:"tags"`
	FlagStatus          string   `json:"flag_status"`
}

// RatingProfile is the external rating summary stored on a merged course record.
type RatingProfile struct {
	AvgRating             float64           `json:"avg_rating"`
	NumRatings            int               `json:"num_ratings"`
	Department            string            `json:"department"`
	WouldTakeAgainPercent float64           `json:"would_take_again_percent"`
	DifficultyLevel       float64           `json:"difficulty_level"`
	Name                  string            `json:"name"`
	RatingDistribution    []int             `json:"rating_distribution"`
	CourseCodes           []CourseTaught    `json:"course_codes"`
	AllRatings            []ProfessorRating `json:"all_ratings,omitempty"`
}
