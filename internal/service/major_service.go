package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/recommend"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type majorStore interface {
	List(ctx context.Context) ([]models.MajorSummary, error)
	Get(ctx context.Context, name string) (*models.Major, error)
	Save(ctx context.Context, name string, major *models.Major) (models.MajorSummary, error)
}

type prereqIndexer interface {
	PrereqIndex(ctx context.Context) (recommend.PrereqIndex, error)
}

// MajorService reads major requirement documents and evaluates transcripts against them.
type MajorService struct {
	store        majorStore
	prereqs      prereqIndexer
	validator    *validator.Validate
	defaultMajor string
	logger       *zap.Logger
}

// NewMajorService constructs a MajorService.
func NewMajorService(store majorStore, prereqs prereqIndexer, validate *validator.Validate, defaultMajor string, logger *zap.Logger) *MajorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MajorService{store: store, prereqs: prereqs, validator: validate, defaultMajor: defaultMajor, logger: logger}
}

// List returns the available majors.
func (s *MajorService) List(ctx context.Context) ([]models.MajorSummary, error) {
	majors, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list majors")
	}
	return majors, nil
}

// Courses lists every course code named by a major.
func (s *MajorService) Courses(ctx context.Context, name string) (*dto.MajorCoursesResponse, error) {
	major, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &dto.MajorCoursesResponse{Major: major.Filename, Courses: major.CourseCodes()}, nil
}

// Groups returns the requirement groups of a major.
func (s *MajorService) Groups(ctx context.Context, name string) ([]models.RequirementGroup, error) {
	major, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return major.Groups, nil
}

// Progress marks a transcript against a major's requirement groups.
func (s *MajorService) Progress(ctx context.Context, name string, req dto.ProgressRequest) (*models.MajorProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	major, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	progress := recommend.MarkClassesTaken(*major, req.ClassesTaken)
	return &progress, nil
}

// Recommend lists the major classes whose prerequisites the transcript satisfies.
// classes is a comma separated transcript; an empty major uses the configured default.
func (s *MajorService) Recommend(ctx context.Context, query dto.RecommendationQuery) (*dto.RecommendationResponse, error) {
	name := strings.TrimSpace(query.Major)
	if name == "" {
		name = s.defaultMajor
	}
	taken := splitClasses(query.Classes)
	if len(taken) == 0 {
		return &dto.RecommendationResponse{
			Major:          name,
			Recommendation: models.Recommendation{EquivalentClasses: []string{}, RecommendedClasses: []string{}},
		}, nil
	}

	major, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	index, err := s.prereqs.PrereqIndex(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RecommendationResponse{Major: major.Filename, Recommendation: recommend.Recommend(taken, *major, index)}, nil
}

// Upload stores a new or replacement major document.
func (s *MajorService) Upload(ctx context.Context, name string, major *models.Major) (models.MajorSummary, error) {
	if major == nil || len(major.Groups) == 0 {
		return models.MajorSummary{}, appErrors.Clone(appErrors.ErrValidation, "major must define at least one group")
	}
	for _, group := range major.Groups {
		if group.Count < 0 {
			return models.MajorSummary{}, appErrors.Clone(appErrors.ErrValidation, "group count must not be negative")
		}
	}
	return s.store.Save(ctx, name, major)
}

func splitClasses(raw string) []string {
	parts := strings.Split(raw, ",")
	classes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			classes = append(classes, trimmed)
		}
	}
	return classes
}
