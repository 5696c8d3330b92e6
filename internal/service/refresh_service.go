package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/gpa"
	"github.com/noah-isme/slugtistics-api/internal/matching"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/prereq"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/jobs"
)

// RefreshJobType identifies course refresh jobs on the queue.
const RefreshJobType = "course_refresh"

type courseFetcher interface {
	FetchCourses(ctx context.Context, categories []string) ([]models.RawCourse, error)
}

type professorFinder interface {
	FindProfessor(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error)
}

type gradeHistory interface {
	gpa.Source
	HistoricalInstructors(ctx context.Context, courseCode string) ([]string, error)
}

type generationWriter interface {
	ReplaceGeneration(ctx context.Context, gen *models.Generation, records []models.MergedCourseRecord) error
}

type refreshRunStore interface {
	Create(ctx context.Context, run *models.RefreshRun) error
	Finish(ctx context.Context, run *models.RefreshRun) error
	ListRecent(ctx context.Context, limit int) ([]models.RefreshRun, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// RefreshServiceConfig governs the refresh pipeline.
type RefreshServiceConfig struct {
	Categories []string
	Timeout    time.Duration
}

// RefreshService rebuilds the published course generation from the live catalog.
type RefreshService struct {
	fetcher   courseFetcher
	ratings   professorFinder
	grades    gradeHistory
	courses   generationWriter
	runs      refreshRunStore
	cache     cacheInvalidator
	metrics   *MetricsService
	resolver  *gpa.Resolver
	parser    prereq.Parser
	validator *validator.Validate
	queue     *jobs.Queue
	cfg       RefreshServiceConfig
	logger    *zap.Logger
}

// NewRefreshService wires the refresh pipeline and its single-worker queue.
// ratings may be nil, in which case courses are published without rating profiles.
func NewRefreshService(fetcher courseFetcher, ratings professorFinder, grades gradeHistory, courses generationWriter, runs refreshRunStore, cache cacheInvalidator, metrics *MetricsService, cfg RefreshServiceConfig, logger *zap.Logger) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Minute
	}
	svc := &RefreshService{
		fetcher:   fetcher,
		ratings:   ratings,
		grades:    grades,
		courses:   courses,
		runs:      runs,
		cache:     cache,
		metrics:   metrics,
		resolver:  gpa.NewResolver(grades, logger),
		parser:    prereq.NewRuleParser(),
		validator: validator.New(),
		cfg:       cfg,
		logger:    logger,
	}
	svc.queue = jobs.NewQueue("course-refresh", svc.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 1,
		MaxRetries: 0,
		Logger:     logger,
	})
	return svc
}

// Queue exposes the refresh queue so it can be supervised.
func (s *RefreshService) Queue() *jobs.Queue {
	return s.queue
}

// Enqueue schedules a refresh. It fails with ErrRefreshInProgress when a run is
// already waiting behind the active one.
func (s *RefreshService) Enqueue(trigger models.RefreshTrigger) (string, error) {
	id, err := s.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: RefreshJobType, Payload: trigger})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return "", appErrors.Clone(appErrors.ErrRefreshInProgress, "a refresh is already queued")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue refresh")
	}
	return id, nil
}

// RecentRuns lists the latest refresh runs, newest first.
func (s *RefreshService) RecentRuns(ctx context.Context, limit int) ([]models.RefreshRunView, error) {
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list refresh runs")
	}
	views := make([]models.RefreshRunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, run.View())
	}
	return views, nil
}

func (s *RefreshService) handleJob(ctx context.Context, job jobs.Job) error {
	trigger, _ := job.Payload.(models.RefreshTrigger)
	if trigger == "" {
		trigger = models.RefreshTriggerManual
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	_, err := s.Run(ctx, trigger)
	return err
}

// Run executes one refresh synchronously and returns the finished run record.
// A failed run leaves the previously published generation in place.
func (s *RefreshService) Run(ctx context.Context, trigger models.RefreshTrigger) (*models.RefreshRun, error) {
	start := time.Now()
	run := &models.RefreshRun{Trigger: trigger}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record refresh run")
	}
	log := s.logger.With(zap.String("run_id", run.ID), zap.String("trigger", string(trigger)))
	log.Info("course refresh started")

	records, skipped, err := s.build(ctx, log)
	run.SkippedCount = skipped
	if err == nil {
		gen := &models.Generation{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), CourseCount: len(records)}
		if err = s.courses.ReplaceGeneration(ctx, gen, records); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish course generation")
		} else {
			run.GenerationID = sql.NullString{String: gen.ID, Valid: true}
			run.CourseCount = len(records)
		}
	}

	if err != nil {
		run.Status = models.RefreshStatusFailed
		run.Error = sql.NullString{String: err.Error(), Valid: true}
		log.Error("course refresh failed", zap.Error(err))
	} else {
		run.Status = models.RefreshStatusSucceeded
		if cacheErr := s.cache.Invalidate(ctx, coursesCachePattern); cacheErr != nil {
			log.Warn("course cache invalidation failed", zap.Error(cacheErr))
		}
		log.Info("course refresh finished",
			zap.Int("courses", run.CourseCount), zap.Int("skipped", run.SkippedCount), zap.Duration("duration", time.Since(start)))
	}

	// The run row is closed even when the refresh context has expired.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if finishErr := s.runs.Finish(finishCtx, run); finishErr != nil {
		log.Warn("failed to finish refresh run", zap.Error(finishErr))
	}
	s.metrics.ObserveRefresh(*run, time.Since(start))
	return run, err
}

func (s *RefreshService) build(ctx context.Context, log *zap.Logger) ([]models.MergedCourseRecord, int, error) {
	raw, err := s.fetcher.FetchCourses(ctx, s.cfg.Categories)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrNoCourses.Code, appErrors.ErrNoCourses.Status, "course fetch failed")
	}
	if len(raw) == 0 {
		return nil, 0, appErrors.ErrNoCourses
	}

	memo := newRefreshMemo()
	records := make([]models.MergedCourseRecord, 0, len(raw))
	skipped := 0
	for i, course := range raw {
		if err := ctx.Err(); err != nil {
			return nil, skipped, fmt.Errorf("refresh interrupted at course %d: %w", i, err)
		}
		if err := s.validator.Struct(course); err != nil {
			log.Debug("skipping invalid course", zap.Int("index", i), zap.Error(err))
			skipped++
			continue
		}
		records = append(records, s.merge(ctx, memo, course, log))
	}
	if len(records) == 0 {
		return nil, skipped, appErrors.ErrNoCourses
	}
	return records, skipped, nil
}

func (s *RefreshService) merge(ctx context.Context, memo *refreshMemo, course models.RawCourse, log *zap.Logger) models.MergedCourseRecord {
	code := matching.NormalizeCourseCode(course.Code)
	subject, catalog := matching.SplitCourseCode(code)

	instructor := models.StaffInstructor
	var profile *models.RatingProfile
	if !isPlaceholderInstructor(course.Instructor) {
		instructor = s.resolveInstructor(ctx, memo, code, course.Instructor, log)
		profile = s.ratingProfile(ctx, memo, instructor, code, log)
	}

	sections := course.DiscussionSections
	if sections == nil {
		sections = []models.DiscussionSection{}
	}

	return models.MergedCourseRecord{
		GE:                 course.GE,
		Code:               code,
		Subject:            subject,
		CatalogNum:         catalog,
		Name:               course.Name,
		Instructor:         instructor,
		Link:               course.Link,
		ClassCount:         course.ClassCount,
		EnrollNum:          course.EnrollNum,
		ClassType:          course.ClassType,
		Schedule:           course.Schedule,
		Location:           course.Location,
		ClassStatus:        course.ClassStatus,
		Description:        course.Description,
		ClassNotes:         course.ClassNotes,
		EnrollmentReqs:     course.EnrollmentReqs,
		HasEnrollmentReqs:  strings.TrimSpace(course.EnrollmentReqs) != "",
		DiscussionSections: sections,
		Credits:            course.Credits,
		Career:             course.Career,
		Grading:            course.Grading,
		CourseType:         course.CourseType,
		GPA:                s.courseGPA(ctx, memo, code, instructor),
		InstructorRatings:  profile,
		Prerequisites:      s.parser.Parse(course.EnrollmentReqs),
	}
}

func (s *RefreshService) resolveInstructor(ctx context.Context, memo *refreshMemo, code, raw string, log *zap.Logger) string {
	if resolved, ok := memo.instructors[raw]; ok {
		return resolved
	}
	resolved := raw
	history, err := s.grades.HistoricalInstructors(ctx, code)
	if err != nil {
		log.Warn("instructor history unavailable", zap.String("course", code), zap.Error(err))
	} else {
		resolved = matching.ResolveInstructor(raw, history)
	}
	memo.instructors[raw] = resolved
	return resolved
}

func (s *RefreshService) ratingProfile(ctx context.Context, memo *refreshMemo, instructor, code string, log *zap.Logger) *models.RatingProfile {
	if s.ratings == nil {
		return nil
	}
	if profile, ok := memo.ratings[instructor]; ok {
		return profile
	}
	profile, err := s.ratings.FindProfessor(ctx, instructor, code)
	if err != nil {
		log.Warn("rating lookup failed", zap.String("instructor", instructor), zap.Error(err))
		profile = nil
	}
	memo.ratings[instructor] = profile
	return profile
}

func (s *RefreshService) courseGPA(ctx context.Context, memo *refreshMemo, code, instructor string) models.GPA {
	key := code + "|" + instructor
	if value, ok := memo.gpas[key]; ok {
		return value
	}
	value := s.resolver.Resolve(ctx, code, instructor)
	memo.gpas[key] = value
	return value
}

// refreshMemo caches lookups for the duration of one run.
type refreshMemo struct {
	instructors map[string]string
	ratings     map[string]*models.RatingProfile
	gpas        map[string]models.GPA
}

func newRefreshMemo() *refreshMemo {
	return &refreshMemo{
		instructors: make(map[string]string),
		ratings:     make(map[string]*models.RatingProfile),
		gpas:        make(map[string]models.GPA),
	}
}

func isPlaceholderInstructor(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "staff", "n/a":
		return true
	}
	return false
}
