package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type memoryCacheRepo struct {
	items map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	removed := 0
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
			removed++
		}
	}
	return removed, nil
}

type fakeSnapshotReader struct {
	snapshot *models.CourseSnapshot
	err      error
	calls    int
}

func (f *fakeSnapshotReader) ActiveSnapshot(context.Context) (*models.CourseSnapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

var snapshotTime = time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC)

func sampleSnapshot() *models.CourseSnapshot {
	return &models.CourseSnapshot{
		GenerationID: "gen-1",
		UpdatedAt:    snapshotTime,
		Courses: []models.MergedCourseRecord{
			{GE: "MF", Code: "MATH 19A", Subject: "MATH", Name: "Calculus", Instructor: "Tony Tromba", EnrollNum: "10001",
				ClassStatus: "Open", GPA: models.GPAOf("2.91")},
			{GE: "CC", Code: "CSE 101", Subject: "CSE", Name: "Algorithms", Instructor: "Jane Marie Lee", EnrollNum: "30101",
				ClassStatus: "Closed", GPA: models.EmptyGPA(),
				Prerequisites: models.PrerequisiteExpression{
					Groups:     [][]string{{"CSE 12"}, {"CSE 16"}},
					Concurrent: [][]string{{"Concurrent: CSE 13S"}},
				}},
			{GE: "CC", Code: "CSE 101", Subject: "CSE", Name: "Algorithms", Instructor: "Staff", EnrollNum: "30102",
				ClassStatus: "Open", Prerequisites: models.PrerequisiteExpression{Groups: [][]string{{"CSE 30"}}}},
			{GE: "", Code: "CSE 12", Subject: "CSE", Name: "Computer Systems", Instructor: "Staff", EnrollNum: "30200",
				ClassStatus: "Wait List"},
		},
	}
}

func newCourseServiceFixture(reader *fakeSnapshotReader, cacheRepo *memoryCacheRepo) *CourseService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	}
	return NewCourseService(reader, cache, nil, nil, nil)
}

func TestCourseServiceSnapshotUsesCache(t *testing.T) {
	reader := &fakeSnapshotReader{snapshot: sampleSnapshot()}
	svc := newCourseServiceFixture(reader, newMemoryCacheRepo())

	first, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "gen-1", first.GenerationID)

	second, hit, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, first.Courses[0].GPA, second.Courses[0].GPA)
	assert.Equal(t, models.GPAEmpty, second.Courses[1].GPA.State)
	assert.True(t, second.Courses[2].GPA.IsAbsent())
}

func TestCourseServiceSnapshotMissing(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{err: sql.ErrNoRows}, nil)

	_, _, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoSnapshot.Code, appErrors.FromError(err).Code)

	update, err := svc.LastUpdate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, update.LastUpdate)
}

func TestCourseServiceSnapshotRepositoryError(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{err: errors.New("connection refused")}, nil)

	_, _, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGrouped(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	grouped, _, err := svc.Grouped(context.Background())
	require.NoError(t, err)
	assert.Len(t, grouped.Courses["CC"], 2)
	assert.Len(t, grouped.Courses["MF"], 1)
	assert.Len(t, grouped.Courses[""], 1)
	require.NotNil(t, grouped.LastUpdate)
	assert.Equal(t, snapshotTime, *grouped.LastUpdate)
}

func TestCourseServiceListFiltersAndPaginates(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	courses, page, err := svc.List(context.Background(), dto.CourseFilter{Subject: "cse", Status: "open"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "30102", courses[0].EnrollNum)
	assert.Equal(t, 1, page.TotalCount)

	courses, _, err = svc.List(context.Background(), dto.CourseFilter{Instructor: "jane marie"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "30101", courses[0].EnrollNum)

	courses, page, err = svc.List(context.Background(), dto.CourseFilter{Search: "algo", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "30102", courses[0].EnrollNum)
	assert.Equal(t, 2, page.TotalCount)

	courses, _, err = svc.List(context.Background(), dto.CourseFilter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, _, err = svc.List(context.Background(), dto.CourseFilter{PageSize: 5000})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGECategories(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	categories, err := svc.GECategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MF", "CC"}, categories)
}

func TestCourseServiceDetails(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	course, err := svc.Details(context.Background(), "30200")
	require.NoError(t, err)
	assert.Equal(t, "CSE 12", course.Code)

	_, err = svc.Details(context.Background(), "99999")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Details(context.Background(), " ")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServicePrerequisitesNormalizesCode(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	resp, err := svc.Prerequisites(context.Background(), "cse-101")
	require.NoError(t, err)
	assert.Equal(t, "CSE 101", resp.Code)
	assert.Equal(t, [][]string{{"CSE 12"}, {"CSE 16"}}, resp.Prerequisites.Groups)

	_, err = svc.Prerequisites(context.Background(), "ANTH 1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServicePrereqIndexSkipsConcurrentGroups(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, repo)

	index, err := svc.PrereqIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CSE 12"}, {"CSE 16"}}, index["CSE 101"])
	assert.Equal(t, [][]string{}, index["CSE 12"])
	assert.Contains(t, repo.items, prereqIndexKey)

	cached, err := svc.PrereqIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, index["CSE 101"], cached["CSE 101"])
}

func TestCourseServiceExport(t *testing.T) {
	svc := newCourseServiceFixture(&fakeSnapshotReader{snapshot: sampleSnapshot()}, nil)

	file, err := svc.Export(context.Background(), dto.CourseFilter{GE: "cc"}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "GE,Code,Name"))
	assert.Contains(t, lines[1], "N/A")

	pdf, err := svc.Export(context.Background(), dto.CourseFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Data), "%PDF"))

	_, err = svc.Export(context.Background(), dto.CourseFilter{}, "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCacheServiceInvalidateDropsCourseKeys(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	cache.Set(ctx, snapshotCacheKey, sampleSnapshot(), 0)
	cache.Set(ctx, prereqIndexKey, map[string][][]string{}, 0)
	cache.Set(ctx, ratingsKeyPrefix+"jane lee|", models.RatingProfile{Name: "Jane Lee"}, 0)

	require.NoError(t, cache.Invalidate(ctx, coursesCachePattern))
	assert.NotContains(t, repo.items, snapshotCacheKey)
	assert.NotContains(t, repo.items, prereqIndexKey)
	assert.Len(t, repo.items, 1)

	var missing models.CourseSnapshot
	assert.False(t, cache.Get(ctx, snapshotCacheKey, &missing))
	assert.False(t, NewCacheService(repo, nil, 0, nil, false).Get(ctx, ratingsKeyPrefix+"jane lee|", &missing))
}
