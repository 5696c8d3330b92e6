package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type profileSearcher interface {
	DetailedProfile(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error)
}

// RatingService looks up instructor rating profiles on demand.
type RatingService struct {
	client    profileSearcher
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRatingService constructs a RatingService. A nil client disables lookups.
func NewRatingService(client profileSearcher, cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RatingService{client: client, cache: cache, ttl: ttl, validator: validate, logger: logger}
}

// Profile returns the detailed rating profile of an instructor, scored against the
// course when one is given.
func (s *RatingService) Profile(ctx context.Context, query dto.RatingQuery) (*models.RatingProfile, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "instructor is required")
	}
	instructor := strings.Join(strings.Fields(query.Instructor), " ")
	if strings.EqualFold(instructor, models.StaffInstructor) || len(strings.Fields(instructor)) < 2 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "instructor must be a first and last name")
	}
	if s.client == nil {
		return nil, false, appErrors.Clone(appErrors.ErrUpstream, "instructor ratings are disabled")
	}
	course := matching.NormalizeCourseCode(query.Course)

	key := ratingsKeyPrefix + matching.NormalizeName(instructor) + "|" + course
	var cached models.RatingProfile
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	profile, err := s.client.DetailedProfile(ctx, instructor, course)
	if err != nil {
		s.logger.Warn("instructor rating lookup failed", zap.String("instructor", instructor), zap.Error(err))
		return nil, false, err
	}
	if profile == nil {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "no rating profile found for "+instructor)
	}
	s.cache.Set(ctx, key, profile, s.ttl)
	return profile, false, nil
}
