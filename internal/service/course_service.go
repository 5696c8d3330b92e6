package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/recommend"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

const (
	defaultCoursePageSize = 50
	maxCoursePageSize     = 500
)

type courseSnapshotReader interface {
	ActiveSnapshot(ctx context.Context) (*models.CourseSnapshot, error)
}

// CourseService serves reads over the last published course generation.
type CourseService struct {
	repo      courseSnapshotReader
	cache     *CacheService
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. cache may be nil.
func NewCourseService(repo courseSnapshotReader, cache *CacheService, exporter *ExportService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if exporter == nil {
		exporter = NewExportService(logger)
	}
	return &CourseService{repo: repo, cache: cache, exporter: exporter, validator: validate, logger: logger}
}

// Snapshot returns the published generation, served from cache when possible.
// The second value reports a cache hit.
func (s *CourseService) Snapshot(ctx context.Context) (*models.CourseSnapshot, bool, error) {
	var cached models.CourseSnapshot
	if s.cache.Get(ctx, snapshotCacheKey, &cached) {
		return &cached, true, nil
	}

	snapshot, err := s.repo.ActiveSnapshot(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.ErrNoSnapshot
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	s.cache.Set(ctx, snapshotCacheKey, snapshot, 0)
	return snapshot, false, nil
}

// Grouped returns the courses keyed by GE category.
func (s *CourseService) Grouped(ctx context.Context) (*dto.GroupedCourses, bool, error) {
	snapshot, hit, err := s.Snapshot(ctx)
	if err != nil {
		return nil, hit, err
	}
	grouped := make(map[string][]models.MergedCourseRecord)
	for _, course := range snapshot.Courses {
		grouped[course.GE] = append(grouped[course.GE], course)
	}
	updated := snapshot.UpdatedAt
	return &dto.GroupedCourses{Courses: grouped, LastUpdate: &updated}, hit, nil
}

// List returns a filtered, paginated flat list of courses.
func (s *CourseService) List(ctx context.Context, filter dto.CourseFilter) ([]models.MergedCourseRecord, *models.Pagination, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	matched := filterCourses(snapshot.Courses, filter)
	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultCoursePageSize
	}
	if size > maxCoursePageSize {
		size = maxCoursePageSize
	}

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}, nil
}

// GECategories lists the GE codes present in the snapshot in first-seen order.
func (s *CourseService) GECategories(ctx context.Context) ([]string, error) {
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, course := range snapshot.Courses {
		if course.GE == "" {
			continue
		}
		if _, ok := seen[course.GE]; ok {
			continue
		}
		seen[course.GE] = struct{}{}
		categories = append(categories, course.GE)
	}
	return categories, nil
}

// Details looks a course offering up by enrollment number.
func (s *CourseService) Details(ctx context.Context, enrollNum string) (*models.MergedCourseRecord, error) {
	enrollNum = strings.TrimSpace(enrollNum)
	if enrollNum == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment number is required")
	}
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Courses {
		if snapshot.Courses[i].EnrollNum == enrollNum {
			course := snapshot.Courses[i]
			return &course, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Prerequisites returns the parsed requirements of the first offering of a course.
func (s *CourseService) Prerequisites(ctx context.Context, code string) (*dto.PrerequisiteResponse, error) {
	normalized := matching.NormalizeCourseCode(code)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, course := range snapshot.Courses {
		if course.Code == normalized {
			return &dto.PrerequisiteResponse{Code: normalized, Prerequisites: course.Prerequisites}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// PrereqIndex maps every published course code to its prerequisite groups.
// Concurrent enrollment groups are left out; the first offering of a code wins.
func (s *CourseService) PrereqIndex(ctx context.Context) (recommend.PrereqIndex, error) {
	var cached recommend.PrereqIndex
	if s.cache.Get(ctx, prereqIndexKey, &cached) {
		return cached, nil
	}
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	index := make(recommend.PrereqIndex, len(snapshot.Courses))
	for _, course := range snapshot.Courses {
		if _, ok := index[course.Code]; ok {
			continue
		}
		groups := course.Prerequisites.Groups
		if groups == nil {
			groups = [][]string{}
		}
		index[course.Code] = groups
	}
	s.cache.Set(ctx, prereqIndexKey, index, 0)
	return index, nil
}

// LastUpdate reports when the published generation was built.
func (s *CourseService) LastUpdate(ctx context.Context) (*dto.LastUpdateResponse, error) {
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrNoSnapshot) {
			return &dto.LastUpdateResponse{}, nil
		}
		return nil, err
	}
	updated := snapshot.UpdatedAt
	return &dto.LastUpdateResponse{LastUpdate: &updated, GenerationID: snapshot.GenerationID}, nil
}

// Export renders the filtered course list as CSV or PDF.
func (s *CourseService) Export(ctx context.Context, filter dto.CourseFilter, format string) (*dto.ExportFile, error) {
	snapshot, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(format, filterCourses(snapshot.Courses, filter), snapshot.UpdatedAt)
}

func filterCourses(courses []models.MergedCourseRecord, filter dto.CourseFilter) []models.MergedCourseRecord {
	ge := strings.TrimSpace(filter.GE)
	subject := strings.ToUpper(strings.TrimSpace(filter.Subject))
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	instructor := matching.NormalizeName(filter.Instructor)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]models.MergedCourseRecord, 0, len(courses))
	for _, course := range courses {
		if ge != "" && !strings.EqualFold(course.GE, ge) {
			continue
		}
		if subject != "" && course.Subject != subject {
			continue
		}
		if status != "" && strings.ToLower(course.ClassStatus) != status {
			continue
		}
		if instructor != "" && !strings.Contains(matching.NormalizeName(course.Instructor), instructor) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(course.Code+" "+course.Name), search) {
			continue
		}
		out = append(out, course)
	}
	return out
}
