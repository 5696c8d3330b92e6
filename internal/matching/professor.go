package matching

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// ProfessorQuery is the identity used to search and score ratings profiles.
type ProfessorQuery struct {
	FirstInitial string
	LastName     string
}

// NewProfessorQuery derives a query from an instructor name such as "J. Lee" or "Jane Lee".
func NewProfessorQuery(name string) (ProfessorQuery, bool) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ProfessorQuery{}, false
	}
	return ProfessorQuery{
		FirstInitial: firstLetter(tokens[0]),
		LastName:     strings.ToLower(tokens[len(tokens)-1]),
	}, true
}

// SearchText is the text sent to the ratings search ("lee j").
func (q ProfessorQuery) SearchText() string {
	return q.LastName + " " + q.FirstInitial
}

// Accepts reports whether a candidate carries the query's last name and first initial.
func (q ProfessorQuery) Accepts(candidate models.ProfessorCandidate) bool {
	if !strings.HasSuffix(strings.ToLower(candidate.LastName), q.LastName) {
		return false
	}
	return firstLetter(candidate.FirstName) == q.FirstInitial
}

var (
	trailingFromDigit = regexp.MustCompile(`\d.*`)
	firstNumber       = regexp.MustCompile(`\d+`)
)

type courseKey struct {
	name   string
	prefix string
	number int
	ok     bool
}

func newCourseKey(code string) courseKey {
	name := strings.ReplaceAll(code, " ", "")
	if name == "" {
		return courseKey{}
	}
	key := courseKey{name: name, prefix: strings.ToLower(trailingFromDigit.ReplaceAllString(name, ""))}
	if n, err := strconv.Atoi(firstNumber.FindString(name)); err == nil {
		key.number = n
		key.ok = true
	}
	return key
}

// ScoreProfessor scores one candidate for the query and optional course code.
// The boolean is false when the candidate is disqualified by name.
func ScoreProfessor(q ProfessorQuery, courseCode string, candidate models.ProfessorCandidate) (int, bool) {
	if !q.Accepts(candidate) {
		return 0, false
	}
	score := 2

	course := newCourseKey(courseCode)
	if course.name == "" {
		return score, true
	}

	var sameDept, exact, higher bool
	for _, taught := range candidate.CourseCodes {
		name := strings.ReplaceAll(taught.CourseName, " ", "")
		if strings.EqualFold(name, course.name) {
			exact = true
		}
		if strings.ToLower(trailingFromDigit.ReplaceAllString(name, "")) != course.prefix {
			continue
		}
		sameDept = true
		if strings.EqualFold(name, course.name) || !course.ok {
			continue
		}
		if n, err := strconv.Atoi(firstNumber.FindString(name)); err == nil && n > course.number {
			higher = true
		}
	}

	if sameDept {
		score++
	} else {
		score--
	}
	if exact {
		score += 5
	} else {
		score--
	}
	if higher && !exact {
		score += 2
	}
	return score, true
}

// BestProfessor picks the highest scoring candidate for an instructor and course.
// Ties go to the earliest candidate. The winner must still pass the name check.
func BestProfessor(instructor, courseCode string, candidates []models.ProfessorCandidate) (models.ProfessorCandidate, bool) {
	q, ok := NewProfessorQuery(instructor)
	if !ok {
		return models.ProfessorCandidate{}, false
	}

	bestIdx := -1
	bestScore := 0
	for i, candidate := range candidates {
		score, ok := ScoreProfessor(q, courseCode, candidate)
		if !ok {
			continue
		}
		if bestIdx < 0 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx < 0 {
		return models.ProfessorCandidate{}, false
	}

	best := candidates[bestIdx]
	if !q.Accepts(best) {
		return models.ProfessorCandidate{}, false
	}
	return best, true
}

func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToLower(r))
}
