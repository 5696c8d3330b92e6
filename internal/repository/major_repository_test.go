package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/storage"
)

const majorDoc = `{
  "groups": [
    {"name": "Lower Division", "count": 2, "classes": ["CSE 12", ["CSE 16", "CSE 20"]]},
    {"count": 1, "classes": ["CSE 101"]}
  ],
  "needed_classes": {"CSE 12": ["CSE 13S"]}
}`

func newMajorRepo(t *testing.T) (*MajorRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewMajorRepository(store, nil), dir
}

func TestMajorRepositoryList(t *testing.T) {
	repo, dir := newMajorRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "computer_science_bs_2024.json"), []byte(majorDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	majors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, majors, 1)
	assert.Equal(t, "Computer Science", majors[0].Name)
	assert.Equal(t, "B.S.", majors[0].Degree)
	assert.Equal(t, "2024", majors[0].Year)
	assert.Equal(t, "computer_science_bs_2024", majors[0].Filename)
}

func TestMajorRepositoryGet(t *testing.T) {
	repo, dir := newMajorRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "computer_science_bs_2024.json"), []byte(majorDoc), 0o644))

	major, err := repo.Get(context.Background(), "computer_science_bs_2024.json")
	require.NoError(t, err)
	assert.Equal(t, "computer_science_bs_2024", major.Filename)
	require.Len(t, major.Groups, 2)
	assert.Equal(t, "Unknown", major.Groups[1].Name)
	assert.True(t, major.Groups[0].Classes[1].IsChoice())
	assert.Equal(t, []string{"CSE 13S"}, major.NeededClasses["CSE 12"])
}

func TestMajorRepositoryGetMissing(t *testing.T) {
	repo, _ := newMajorRepo(t)

	_, err := repo.Get(context.Background(), "history_ba_2024")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = repo.Get(context.Background(), "../etc/passwd")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMajorRepositorySave(t *testing.T) {
	repo, _ := newMajorRepo(t)

	major := &models.Major{Groups: []models.RequirementGroup{{Name: "Core", Count: 1,
		Classes: []models.RequirementItem{{Code: "MATH 19A"}}}}}
	summary, err := repo.Save(context.Background(), "mathematics_ba_2025", major)
	require.NoError(t, err)
	assert.Equal(t, "B.A.", summary.Degree)

	loaded, err := repo.Get(context.Background(), "mathematics_ba_2025")
	require.NoError(t, err)
	assert.Equal(t, "MATH 19A", loaded.Groups[0].Classes[0].Code)

	_, err = repo.Save(context.Background(), "nested/x_bs_2024", major)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
