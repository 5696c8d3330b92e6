package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/storage"
)

const majorExt = ".json"

// MajorRepository reads major requirement documents from a directory of JSON files.
type MajorRepository struct {
	store  *storage.LocalStorage
	logger *zap.Logger
}

// NewMajorRepository constructs the repository.
func NewMajorRepository(store *storage.LocalStorage, logger *zap.Logger) *MajorRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MajorRepository{store: store, logger: logger}
}

// List returns a summary for every major file whose name parses.
func (r *MajorRepository) List(ctx context.Context) ([]models.MajorSummary, error) {
	files, err := r.store.List(majorExt)
	if err != nil {
		if storage.IsNotExist(err) {
			return []models.MajorSummary{}, nil
		}
		return nil, fmt.Errorf("list majors: %w", err)
	}

	majors := make([]models.MajorSummary, 0, len(files))
	for _, file := range files {
		summary, ok := models.ParseMajorFilename(file)
		if !ok {
			r.logger.Debug("skipping unparseable major file", zap.String("file", file))
			continue
		}
		majors = append(majors, summary)
	}
	return majors, nil
}

// Get loads one major by its filename, with or without the extension.
func (r *MajorRepository) Get(ctx context.Context, name string) (*models.Major, error) {
	stem := strings.TrimSuffix(strings.TrimSpace(name), majorExt)
	if stem == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "major is required")
	}

	raw, err := r.store.Read(stem + majorExt)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("major %q not found", stem))
		}
		return nil, fmt.Errorf("read major %s: %w", stem, err)
	}

	var major models.Major
	if err := json.Unmarshal(raw, &major); err != nil {
		return nil, fmt.Errorf("decode major %s: %w", stem, err)
	}
	major.Filename = stem
	if major.NeededClasses == nil {
		major.NeededClasses = map[string][]string{}
	}
	for i := range major.Groups {
		if major.Groups[i].Name == "" {
			major.Groups[i].Name = "Unknown"
		}
	}
	return &major, nil
}

// Save validates and stores a major document under name.
func (r *MajorRepository) Save(ctx context.Context, name string, major *models.Major) (models.MajorSummary, error) {
	stem := strings.TrimSuffix(strings.TrimSpace(name), majorExt)
	summary, ok := models.ParseMajorFilename(stem)
	if !ok || strings.ContainsAny(stem, `/\`) {
		return models.MajorSummary{}, appErrors.Clone(appErrors.ErrValidation, "major name must look like name_degree_year")
	}

	payload, err := json.MarshalIndent(major, "", "  ")
	if err != nil {
		return models.MajorSummary{}, fmt.Errorf("encode major %s: %w", stem, err)
	}
	if _, err := r.store.Save(stem+majorExt, payload); err != nil {
		return models.MajorSummary{}, fmt.Errorf("save major %s: %w", stem, err)
	}
	r.logger.Info("major document stored", zap.String("major", stem))
	return summary, nil
}
