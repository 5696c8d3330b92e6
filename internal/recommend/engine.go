// Package recommend walks a major's prerequisite graph to find the courses a
// student can take next, and marks a transcript against major requirements.
package recommend

import (
	"sort"

	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
)

// PrereqIndex maps a course code to its prerequisite groups.
type PrereqIndex map[string][][]string

// Recommend returns the classes the student is credited with and the major classes
// whose prerequisites are now met.
//
// A taken class that appears in the major's needed table credits its listed
// equivalents as well; any other taken class is credited as is. A course is
// recommended when it belongs to the major, is not already credited, and at least one
// of its groups is fully contained in the credited set. Both lists are sorted.
func Recommend(classesTaken []string, major models.Major, index PrereqIndex) models.Recommendation {
	needed := make(map[string][]string, len(major.NeededClasses))
	for code, equivalents := range major.NeededClasses {
		needed[matching.NormalizeCourseCode(code)] = equivalents
	}

	equivalent := make(map[string]struct{})
	for _, raw := range classesTaken {
		code := matching.NormalizeCourseCode(raw)
		if code == "" {
			continue
		}
		equivalent[code] = struct{}{}
		if equivalents, ok := needed[code]; ok {
			for _, next := range equivalents {
				equivalent[matching.NormalizeCourseCode(next)] = struct{}{}
			}
		}
	}

	recommended := make(map[string]struct{})
	for course, groups := range index {
		code := matching.NormalizeCourseCode(course)
		if _, ok := needed[code]; !ok {
			continue
		}
		if _, done := equivalent[code]; done {
			continue
		}
		for _, group := range groups {
			if subset(group, equivalent) {
				recommended[code] = struct{}{}
				break
			}
		}
	}

	return models.Recommendation{
		EquivalentClasses:  sortedKeys(equivalent),
		RecommendedClasses: sortedKeys(recommended),
	}
}

func subset(group []string, set map[string]struct{}) bool {
	for _, code := range group {
		if _, ok := set[matching.NormalizeCourseCode(code)]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
