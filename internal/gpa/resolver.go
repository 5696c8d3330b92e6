package gpa

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// Source reads summed grade distributions from the grade history.
type Source interface {
	InstructorDistribution(ctx context.Context, courseCode, instructor string) (models.GradeDistribution, error)
	// CourseDistribution also returns the number of history rows that were summed.
	CourseDistribution(ctx context.Context, courseCode string) (models.GradeDistribution, int, error)
}

// Resolver applies the instructor-first, course-wide-second GPA policy.
type Resolver struct {
	source Source
	logger *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(source Source, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, logger: logger}
}

// UsesInstructorHistory reports whether an instructor name is specific enough to
// filter grade history by. Blank names, "Staff" and abbreviated names are not.
func UsesInstructorHistory(instructor string) bool {
	name := strings.TrimSpace(instructor)
	if name == "" || strings.EqualFold(name, models.StaffInstructor) {
		return false
	}
	return !strings.Contains(name, ".")
}

// Resolve returns the GPA for a course, preferring the instructor's own history.
//
// The course-wide fallback yields an absent GPA when the history has no rows for the
// course or cannot be read, and "N/A" when rows exist but hold no letter grades.
func (r *Resolver) Resolve(ctx context.Context, courseCode, instructor string) models.GPA {
	if UsesInstructorHistory(instructor) {
		dist, err := r.source.InstructorDistribution(ctx, courseCode, instructor)
		switch {
		case err != nil:
			r.logger.Warn("instructor grade history unavailable",
				zap.String("course", courseCode), zap.String("instructor", instructor), zap.Error(err))
		case dist.Total() > 0:
			return Compute(dist)
		}
	}

	dist, rows, err := r.source.CourseDistribution(ctx, courseCode)
	if err != nil {
		r.logger.Warn("course grade history unavailable", zap.String("course", courseCode), zap.Error(err))
		return models.AbsentGPA()
	}
	if rows == 0 {
		return models.AbsentGPA()
	}
	return Compute(dist)
}
