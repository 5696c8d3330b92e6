package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/recommend"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type fakeMajorStore struct {
	majors map[string]*models.Major
	saved  map[string]*models.Major
}

func (f *fakeMajorStore) List(context.Context) ([]models.MajorSummary, error) {
	out := make([]models.MajorSummary, 0, len(f.majors))
	for name := range f.majors {
		summary, _ := models.ParseMajorFilename(name)
		out = append(out, summary)
	}
	return out, nil
}

func (f *fakeMajorStore) Get(_ context.Context, name string) (*models.Major, error) {
	major, ok := f.majors[name]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "major not found")
	}
	return major, nil
}

func (f *fakeMajorStore) Save(_ context.Context, name string, major *models.Major) (models.MajorSummary, error) {
	if f.saved == nil {
		f.saved = make(map[string]*models.Major)
	}
	f.saved[name] = major
	summary, _ := models.ParseMajorFilename(name)
	return summary, nil
}

type fakePrereqIndexer struct {
	index recommend.PrereqIndex
	calls int
}

func (f *fakePrereqIndexer) PrereqIndex(context.Context) (recommend.PrereqIndex, error) {
	f.calls++
	return f.index, nil
}

func csMajor() *models.Major {
	return &models.Major{
		Filename: "computer_science_bs_2024",
		Groups: []models.RequirementGroup{
			{Name: "Lower Division", Count: 3, Classes: []models.RequirementItem{
				{Code: "CSE 12"},
				{Code: "CSE 16"},
				{Options: []string{"MATH 19A", "MATH 20A"}},
			}},
			{Name: "Upper Division", Count: 1, Classes: []models.RequirementItem{{Code: "CSE 101"}}},
		},
		NeededClasses: map[string][]string{
			"CSE 12":   {},
			"CSE 16":   {},
			"CSE 101":  {},
			"MATH 19A": {"MATH 20A"},
		},
	}
}

func newMajorServiceFixture() (*MajorService, *fakeMajorStore, *fakePrereqIndexer) {
	store := &fakeMajorStore{majors: map[string]*models.Major{"computer_science_bs_2024": csMajor()}}
	prereqs := &fakePrereqIndexer{index: recommend.PrereqIndex{
		"CSE 101": {{"CSE 12", "CSE 16"}},
		"CSE 16":  {{"MATH 19A"}},
	}}
	return NewMajorService(store, prereqs, nil, "computer_science_bs_2024", nil), store, prereqs
}

func TestMajorServiceCoursesAndGroups(t *testing.T) {
	svc, _, _ := newMajorServiceFixture()

	courses, err := svc.Courses(context.Background(), "computer_science_bs_2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"CSE 12", "CSE 16", "MATH 19A", "MATH 20A", "CSE 101"}, courses.Courses)

	groups, err := svc.Groups(context.Background(), "computer_science_bs_2024")
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = svc.Groups(context.Background(), "history_ba_2024")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMajorServiceProgress(t *testing.T) {
	svc, _, _ := newMajorServiceFixture()

	progress, err := svc.Progress(context.Background(), "computer_science_bs_2024",
		dto.ProgressRequest{ClassesTaken: []string{"cse12", "MATH 20A"}})
	require.NoError(t, err)
	lower := progress.Groups[0]
	assert.Equal(t, models.CourseStatusTaken, lower.Courses[0].Status)
	assert.Equal(t, models.CourseStatusNotTaken, lower.Courses[1].Status)
	assert.Equal(t, models.CourseStatusTaken, lower.Courses[2].Status)
	assert.Equal(t, 2, progress.OverallStatus.Completed)

	_, err = svc.Progress(context.Background(), "computer_science_bs_2024", dto.ProgressRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMajorServiceRecommend(t *testing.T) {
	svc, _, prereqs := newMajorServiceFixture()

	resp, err := svc.Recommend(context.Background(), dto.RecommendationQuery{Classes: "CSE 12, CSE 16"})
	require.NoError(t, err)
	assert.Equal(t, "computer_science_bs_2024", resp.Major)
	assert.Equal(t, []string{"CSE 12", "CSE 16"}, resp.EquivalentClasses)
	assert.Equal(t, []string{"CSE 101"}, resp.RecommendedClasses)

	resp, err = svc.Recommend(context.Background(), dto.RecommendationQuery{Classes: "MATH 19A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MATH 19A", "MATH 20A"}, resp.EquivalentClasses)
	assert.Equal(t, []string{"CSE 16"}, resp.RecommendedClasses)
	assert.Equal(t, 2, prereqs.calls)
}

func TestMajorServiceRecommendEmptyTranscript(t *testing.T) {
	svc, _, prereqs := newMajorServiceFixture()

	resp, err := svc.Recommend(context.Background(), dto.RecommendationQuery{Classes: " , ", Major: "unknown_bs_2020"})
	require.NoError(t, err)
	assert.Empty(t, resp.EquivalentClasses)
	assert.NotNil(t, resp.RecommendedClasses)
	assert.Zero(t, prereqs.calls)
}

func TestMajorServiceUpload(t *testing.T) {
	svc, store, _ := newMajorServiceFixture()

	summary, err := svc.Upload(context.Background(), "mathematics_ba_2025", csMajor())
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", summary.Name)
	assert.Contains(t, store.saved, "mathematics_ba_2025")

	_, err = svc.Upload(context.Background(), "empty_ba_2025", &models.Major{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
