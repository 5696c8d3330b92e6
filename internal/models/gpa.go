package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LetterGrades lists the grade symbols that carry grade points, highest first.
var LetterGrades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}

// NonGradeSymbols are reported by the grade history but never contribute to a GPA.
var NonGradeSymbols = []string{"P", "NP", "W"}

// GradeDistribution maps a letter grade to the number of students who received it.
type GradeDistribution map[string]int

// Total returns the number of students with a positive count on a known letter grade.
func (d GradeDistribution) Total() int {
	total := 0
	for _, grade := range LetterGrades {
		if count := d[grade]; count > 0 {
			total += count
		}
	}
	return total
}

// GradeHistoryRow is one term/instructor row of the historical grade table.
type GradeHistoryRow struct {
	CourseCode  string         `json:"SubjectCatalogNbr"`
	Term        string         `json:"Term"`
	Instructors string         `json:"Instructors"`
	Grades      map[string]int `json:"Grades"`
}

// GPANotAvailable is reported when grade data exists but holds no usable counts.
const GPANotAvailable = "N/A"

// GPAState distinguishes the three outcomes of a GPA lookup.
type GPAState int

const (
	// GPAAbsent means no grade data could be queried.
	GPAAbsent GPAState = iota
	// GPAEmpty means grade data existed but summed to zero students.
	GPAEmpty
	// GPAValue means Formatted holds a two-decimal GPA.
	GPAValue
)

// GPA is a tri-state grade point average.
type GPA struct {
	State     GPAState
	Formatted string
}

// AbsentGPA returns a GPA for which no data was available.
func AbsentGPA() GPA { return GPA{State: GPAAbsent} }

// EmptyGPA returns the "N/A" GPA.
func EmptyGPA() GPA { return GPA{State: GPAEmpty, Formatted: GPANotAvailable} }

// GPAOf wraps a formatted GPA value.
func GPAOf(value string) GPA { return GPA{State: GPAValue, Formatted: value} }

// IsAbsent reports whether no data was available.
func (g GPA) IsAbsent() bool { return g.State == GPAAbsent }

// String renders the GPA as the API exposes it; absent renders as an empty string.
func (g GPA) String() string {
	switch g.State {
	case GPAEmpty:
		return GPANotAvailable
	case GPAValue:
		return g.Formatted
	default:
		return ""
	}
}

// MarshalJSON encodes absent as null and the other states as strings.
func (g GPA) MarshalJSON() ([]byte, error) {
	if g.State == GPAAbsent {
		return []byte("null"), nil
	}
	return json.Marshal(g.String())
}

// UnmarshalJSON accepts null, "N/A" or a numeric string.
func (g *GPA) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = AbsentGPA()
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode gpa: %w", err)
	}
	*g = parseGPA(raw)
	return nil
}

// Value implements driver.Valuer; absent is stored as NULL.
func (g GPA) Value() (driver.Value, error) {
	if g.State == GPAAbsent {
		return nil, nil
	}
	return g.String(), nil
}

// Scan implements sql.Scanner.
func (g *GPA) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g = AbsentGPA()
	case string:
		*g = parseGPA(v)
	case []byte:
		*g = parseGPA(string(v))
	default:
		return fmt.Errorf("scan gpa: unsupported type %T", src)
	}
	return nil
}

func parseGPA(raw string) GPA {
	switch raw {
	case "":
		return AbsentGPA()
	case GPANotAvailable:
		return EmptyGPA()
	default:
		return GPAOf(raw)
	}
}
