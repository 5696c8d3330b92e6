// Package gpa turns historical grade distributions into grade point averages.
package gpa

import (
	"fmt"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// Points returns the grade points for a letter grade.
func Points(grade string) (float64, bool) {
	p, ok := gradePoints[grade]
	return p, ok
}

// Compute returns the GPA of a distribution formatted to two decimals.
// Unknown grades and non-positive counts are ignored; no students yields "N/A".
func Compute(dist models.GradeDistribution) models.GPA {
	var points float64
	students := 0
	for _, grade := range models.LetterGrades {
		count := dist[grade]
		if count <= 0 {
			continue
		}
		p := gradePoints[grade]
		points += p * float64(count)
		students += count
	}
	if students == 0 {
		return models.EmptyGPA()
	}
	return models.GPAOf(fmt.Sprintf("%.2f", points/float64(students)))
}
