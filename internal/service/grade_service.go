package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/gpa"
	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

type gradeReader interface {
	gpa.Source
	Classes(ctx context.Context) ([]string, error)
	Instructors(ctx context.Context, courseCode, term string) ([]string, error)
	Quarters(ctx context.Context, courseCode, instructor string) ([]string, error)
	Distribution(ctx context.Context, courseCode, term, instructor string) (models.GradeDistribution, int, error)
	ClassInfo(ctx context.Context, courseCode string) ([]models.GradeHistoryRow, error)
}

// GradeService exposes the historical grade table.
type GradeService struct {
	repo     gradeReader
	resolver *gpa.Resolver
	logger   *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeReader, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, resolver: gpa.NewResolver(repo, logger), logger: logger}
}

// Classes lists every course code present in the history.
func (s *GradeService) Classes(ctx context.Context) ([]string, error) {
	classes, err := s.repo.Classes(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to list classes")
	}
	return classes, nil
}

// Instructors lists the instructors who taught a course, optionally in one term.
func (s *GradeService) Instructors(ctx context.Context, code, term string) ([]string, error) {
	code, err := requireCode(code)
	if err != nil {
		return nil, err
	}
	instructors, err := s.repo.Instructors(ctx, code, strings.TrimSpace(term))
	if err != nil {
		return nil, s.internal(err, "failed to list instructors")
	}
	return instructors, nil
}

// Quarters lists the terms a course was offered, newest first.
func (s *GradeService) Quarters(ctx context.Context, code, instructor string) ([]string, error) {
	code, err := requireCode(code)
	if err != nil {
		return nil, err
	}
	terms, err := s.repo.Quarters(ctx, code, strings.TrimSpace(instructor))
	if err != nil {
		return nil, s.internal(err, "failed to list quarters")
	}
	return terms, nil
}

// Distribution sums the grade counts of a course with optional filters and computes its GPA.
func (s *GradeService) Distribution(ctx context.Context, code string, query dto.DistributionQuery) (*dto.DistributionResponse, error) {
	code, err := requireCode(code)
	if err != nil {
		return nil, err
	}
	term := strings.TrimSpace(query.Term)
	instructor := strings.TrimSpace(query.Instructor)
	dist, rows, err := s.repo.Distribution(ctx, code, term, instructor)
	if err != nil {
		return nil, s.internal(err, "failed to load grade distribution")
	}
	if rows == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no grade history for "+code)
	}
	return &dto.DistributionResponse{
		Code:        code,
		Term:        term,
		Instructor:  instructor,
		Grades:      dist,
		Students:    dist.Total(),
		GPA:         gpa.Compute(dist),
		HistoryRows: rows,
	}, nil
}

// ClassInfo returns every history row of a course, including P/NP/W counts.
func (s *GradeService) ClassInfo(ctx context.Context, code string) ([]models.GradeHistoryRow, error) {
	code, err := requireCode(code)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ClassInfo(ctx, code)
	if err != nil {
		return nil, s.internal(err, "failed to load class info")
	}
	if len(history) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no grade history for "+code)
	}
	return history, nil
}

// GPA resolves a course GPA, preferring the instructor's own history.
func (s *GradeService) GPA(ctx context.Context, code, instructor string) (*dto.GPAResponse, error) {
	code, err := requireCode(code)
	if err != nil {
		return nil, err
	}
	instructor = strings.TrimSpace(instructor)
	return &dto.GPAResponse{Code: code, Instructor: instructor, GPA: s.resolver.Resolve(ctx, code, instructor)}, nil
}

func (s *GradeService) internal(err error, msg string) error {
	s.logger.Error(msg, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}

func requireCode(raw string) (string, error) {
	code := matching.NormalizeCourseCode(raw)
	if code == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}
	return code, nil
}
