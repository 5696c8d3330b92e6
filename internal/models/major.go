package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MajorSummary describes a major document discovered on disk.
type MajorSummary struct {
	Name     string `json:"name"`
	Degree   string `json:"degree"`
	Year     string `json:"year"`
	FullName string `json:"full_name"`
	Filename string `json:"filename"`
}

// RequirementItem is either a single course code or a list of alternatives.
type RequirementItem struct {
	Code    string
	Options []string
}

// IsChoice reports whether the item lists alternatives.
func (i RequirementItem) IsChoice() bool {
	return len(i.Options) > 0
}

// Codes returns every course code named by the item.
func (i RequirementItem) Codes() []string {
	if i.IsChoice() {
		return i.Options
	}
	if i.Code == "" {
		return nil
	}
	return []string{i.Code}
}

// UnmarshalJSON accepts a string or an array of strings.
func (i *RequirementItem) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		*i = RequirementItem{Code: code}
		return nil
	}
	var options []string
	if err := json.Unmarshal(data, &options); err != nil {
		return fmt.Errorf("requirement item must be a string or list of strings: %w", err)
	}
	*i = RequirementItem{Options: options}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (i RequirementItem) MarshalJSON() ([]byte, error) {
	if i.IsChoice() {
		return json.Marshal(i.Options)
	}
	return json.Marshal(i.Code)
}

// RequirementGroup is a labelled block of a major's requirements.
type RequirementGroup struct {
	Name    string            `json:"name"`
	Count   int               `json:"count"`
	Classes []RequirementItem `json:"classes"`
}

// Major is a major requirement document.
// NeededClasses maps a course to the courses accepted as equivalent to it.
type Major struct {
	Filename      string              `json:"filename"`
	Groups        []RequirementGroup  `json:"groups"`
	NeededClasses map[string][]string `json:"needed_classes"`
}

// CourseCodes lists every course code named in the major's groups, alternatives included.
func (m Major) CourseCodes() []string {
	codes := make([]string, 0)
	for _, group := range m.Groups {
		for _, item := range group.Classes {
			codes = append(codes, item.Codes()...)
		}
	}
	return codes
}

// Course progress states.
const (
	CourseStatusTaken    = "taken"
	CourseStatusNotTaken = "not_taken"
)

// CourseProgress is the completion state of one requirement item.
type CourseProgress struct {
	Code     string   `json:"code"`
	Options  []string `json:"options,omitempty"`
	Status   string   `json:"status"`
	IsChoice bool     `json:"is_choice"`
}

// GroupProgress is the completion state of one requirement group.
type GroupProgress struct {
	Name          string           `json:"name"`
	CountRequired int              `json:"count_required"`
	Courses       []CourseProgress `json:"courses"`
}

// OverallProgress summarizes completion across all groups.
type OverallProgress struct {
	TotalCourses int `json:"total_courses"`
	Completed    int `json:"completed"`
	Remaining    int `json:"remaining"`
}

// MajorProgress is the result of marking a transcript against a major.
type MajorProgress struct {
	Major         string          `json:"major"`
	Groups        []GroupProgress `json:"groups"`
	OverallStatus OverallProgress `json:"overall_status"`
}

// Recommendation is the output of the recommendation engine.
type Recommendation struct {
	EquivalentClasses  []string `json:"equiv_classes"`
	RecommendedClasses []string `json:"recommended_classes"`
}

// FormatDegree renders a two letter degree code as "B.S."; other codes are upper-cased.
func FormatDegree(raw string) string {
	degree := strings.ToUpper(raw)
	if len(degree) == 2 {
		return fmt.Sprintf("%c.%c.", degree[0], degree[1])
	}
	return degree
}

// ParseMajorFilename splits "computer_science_bs_2024" into name, degree and year.
// Filenames with fewer than two underscore-separated parts are rejected.
func ParseMajorFilename(filename string) (MajorSummary, bool) {
	stem := strings.TrimSuffix(filename, ".json")
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return MajorSummary{}, false
	}
	year := parts[len(parts)-1]
	degree := FormatDegree(parts[len(parts)-2])

	words := make([]string, 0, len(parts)-2)
	for _, word := range parts[:len(parts)-2] {
		if word == "" {
			continue
		}
		words = append(words, strings.ToUpper(word[:1])+strings.ToLower(word[1:]))
	}
	name := strings.Join(words, " ")

	return MajorSummary{
		Name:     name,
		Degree:   degree,
		Year:     year,
		FullName: strings.TrimSpace(name + " " + degree),
		Filename: stem,
	}, true
}
