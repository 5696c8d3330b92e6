package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane smith", NormalizeName("  Jane   Smith "))
	assert.Equal(t, "staff", NormalizeName("Staff"))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, "", NormalizeName(""))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, []string{"J", "M"}, Initials("jane marie smith"))
	assert.Nil(t, Initials("smith"))
}

func TestNormalizeCourseCode(t *testing.T) {
	cases := map[string]string{
		"CSE 101":   "CSE 101",
		"cse101":    "CSE 101",
		"CSE-101":   "CSE 101",
		"CSE, 101":  "CSE 101",
		" math 19a": "MATH 19A",
		"":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCourseCode(in), in)
	}

	subject, catalog := SplitCourseCode("CSE 13S")
	assert.Equal(t, "CSE", subject)
	assert.Equal(t, "13S", catalog)
	assert.Equal(t, "13", CatalogNumber(catalog))
}

func TestResolveInstructorExactKeepsOriginalCasing(t *testing.T) {
	assert.Equal(t, "Jane Smith", ResolveInstructor("jane smith", []string{"Jane Smith"}))
	assert.Equal(t, "Jane  Smith", ResolveInstructor("JANE SMITH", []string{"John Smith", "Jane  Smith"}))
}

func TestResolveInstructorFirstQualifyingCandidateWins(t *testing.T) {
	got := ResolveInstructor("J. Smith", []string{"Jane Marie Smith", "John Smith"})
	assert.Equal(t, "Jane Marie Smith", got)

	got = ResolveInstructor("J. M. Smith", []string{"John Smith", "Jane Marie Smith"})
	assert.Equal(t, "Jane Marie Smith", got)
}

func TestResolveInstructorFallsBack(t *testing.T) {
	assert.Equal(t, "Staff", ResolveInstructor("Staff", []string{"Staff Member"}))
	assert.Equal(t, "A. Jones", ResolveInstructor("A. Jones", []string{"Bob Jones", "Alice Smith"}))
	assert.Equal(t, "A. Jones", ResolveInstructor("A. Jones", []string{"Jones"}))

	_, ok := MatchInstructor("A. Jones", nil)
	assert.False(t, ok)
}

func TestResolveInstructorHyphenatedLastName(t *testing.T) {
	got := ResolveInstructor("M. Garcia-Lopez", []string{"Maria Garcia", "Maria Elena Garcia-Lopez"})
	assert.Equal(t, "Maria Elena Garcia-Lopez", got)
}

func candidate(first, last string, courses ...string) models.ProfessorCandidate {
	c := models.ProfessorCandidate{FirstName: first, LastName: last}
	for _, course := range courses {
		c.CourseCodes = append(c.CourseCodes, models.CourseTaught{CourseName: course, CourseCount: 1})
	}
	return c
}

func TestProfessorQuery(t *testing.T) {
	q, ok := NewProfessorQuery("J. Lee")
	assert.True(t, ok)
	assert.Equal(t, "lee j", q.SearchText())

	_, ok = NewProfessorQuery("  ")
	assert.False(t, ok)
}

func TestScoreProfessor(t *testing.T) {
	q, _ := NewProfessorQuery("Jane Lee")

	score, ok := ScoreProfessor(q, "CSE 101", candidate("Jane", "Lee", "CSE101"))
	assert.True(t, ok)
	assert.Equal(t, 2+1+5, score)

	score, ok = ScoreProfessor(q, "CSE 101", candidate("Jane", "Lee", "CSE130"))
	assert.True(t, ok)
	assert.Equal(t, 2+1-1+2, score)

	score, ok = ScoreProfessor(q, "CSE 101", candidate("Jane", "Lee", "MATH19A"))
	assert.True(t, ok)
	assert.Equal(t, 2-1-1, score)

	score, ok = ScoreProfessor(q, "", candidate("Jane", "Lee"))
	assert.True(t, ok)
	assert.Equal(t, 2, score)

	_, ok = ScoreProfessor(q, "CSE 101", candidate("Bob", "Lee", "CSE101"))
	assert.False(t, ok)
	_, ok = ScoreProfessor(q, "CSE 101", candidate("Jane", "Leeds", "CSE101"))
	assert.False(t, ok)
}

func TestBestProfessorPrefersCourseOverlap(t *testing.T) {
	candidates := []models.ProfessorCandidate{
		candidate("Jordan", "Lee", "PSYC1"),
		candidate("Jane", "Lee", "CSE101", "CSE12"),
		candidate("Bob", "Lee", "CSE101"),
	}
	best, ok := BestProfessor("J. Lee", "CSE 101", candidates)
	assert.True(t, ok)
	assert.Equal(t, "Jane", best.FirstName)
}

func TestBestProfessorTieGoesToFirst(t *testing.T) {
	candidates := []models.ProfessorCandidate{
		candidate("Jane", "Lee", "CSE101"),
		candidate("Joan", "Lee", "CSE101"),
	}
	best, ok := BestProfessor("J. Lee", "CSE 101", candidates)
	assert.True(t, ok)
	assert.Equal(t, "Jane", best.FirstName)
}

func TestBestProfessorSuffixLastName(t *testing.T) {
	best, ok := BestProfessor("Ana Lopez", "", []models.ProfessorCandidate{candidate("Ana", "Garcia-Lopez")})
	assert.True(t, ok)
	assert.Equal(t, "Garcia-Lopez", best.LastName)
}

func TestBestProfessorNoSurvivor(t *testing.T) {
	_, ok := BestProfessor("J. Lee", "CSE 101", []models.ProfessorCandidate{candidate("Bob", "Lee"), candidate("Jane", "Kim")})
	assert.False(t, ok)

	_, ok = BestProfessor("J. Lee", "CSE 101", nil)
	assert.False(t, ok)
}
