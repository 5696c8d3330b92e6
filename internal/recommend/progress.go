package recommend

import (
	"strings"

	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
)

// MarkClassesTaken reports, per requirement item, whether the transcript covers it.
// An item listing alternatives counts as taken when any alternative was taken.
func MarkClassesTaken(major models.Major, classesTaken []string) models.MajorProgress {
	taken := make(map[string]struct{}, len(classesTaken))
	for _, code := range classesTaken {
		if normalized := matching.NormalizeCourseCode(code); normalized != "" {
			taken[normalized] = struct{}{}
		}
	}
	isTaken := func(code string) bool {
		_, ok := taken[matching.NormalizeCourseCode(code)]
		return ok
	}

	total := len(major.CourseCodes())
	progress := models.MajorProgress{
		Major:  major.Filename,
		Groups: make([]models.GroupProgress, 0, len(major.Groups)),
	}

	completed := 0
	for _, group := range major.Groups {
		name := group.Name
		if name == "" {
			name = "Unknown"
		}
		gp := models.GroupProgress{
			Name:          name,
			CountRequired: group.Count,
			Courses:       make([]models.CourseProgress, 0, len(group.Classes)),
		}
		for _, item := range group.Classes {
			cp := models.CourseProgress{Status: models.CourseStatusNotTaken, IsChoice: item.IsChoice()}
			done := false
			if item.IsChoice() {
				cp.Code = strings.Join(item.Options, " OR ")
				cp.Options = item.Options
				for _, option := range item.Options {
					if isTaken(option) {
						done = true
						break
					}
				}
			} else {
				cp.Code = item.Code
				done = isTaken(item.Code)
			}
			if done {
				cp.Status = models.CourseStatusTaken
				completed++
			}
			gp.Courses = append(gp.Courses, cp)
		}
		progress.Groups = append(progress.Groups, gp)
	}

	progress.OverallStatus = models.OverallProgress{
		TotalCourses: total,
		Completed:    completed,
		Remaining:    total - completed,
	}
	return progress
}
