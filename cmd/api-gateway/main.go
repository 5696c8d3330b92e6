package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/slugtistics-api/api/swagger"
	"github.com/noah-isme/slugtistics-api/internal/catalog"
	"github.com/noah-isme/slugtistics-api/internal/handler"
	"github.com/noah-isme/slugtistics-api/internal/models"
	"github.com/noah-isme/slugtistics-api/internal/ratings"
	"github.com/noah-isme/slugtistics-api/internal/repository"
	"github.com/noah-isme/slugtistics-api/internal/router"
	"github.com/noah-isme/slugtistics-api/internal/service"
	"github.com/noah-isme/slugtistics-api/internal/supervisor"
	"github.com/noah-isme/slugtistics-api/pkg/cache"
	"github.com/noah-isme/slugtistics-api/pkg/config"
	"github.com/noah-isme/slugtistics-api/pkg/database"
	"github.com/noah-isme/slugtistics-api/pkg/logger"
	"github.com/noah-isme/slugtistics-api/pkg/storage"
)

// @title Slugtistics API
// @version 1.0.0
// @description Course catalog, grade history and degree planning API.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type ratingsSource interface {
	FindProfessor(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error)
	DetailedProfile(ctx context.Context, instructor, courseCode string) (*models.RatingProfile, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	gradesDB, err := database.NewSQLite(ctx, cfg.Grades)
	if err != nil {
		logr.Sugar().Fatalw("failed to open grade history", "error", err)
	}
	defer gradesDB.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, serving without cache", zap.Error(err))
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	} else {
		cacheRepo = repository.NewCacheRepository(nil, logr)
	}
	defer cacheRepo.Close() //nolint:errcheck

	majorStore, err := storage.NewLocalStorage(cfg.Majors.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open majors directory", "error", err, "dir", cfg.Majors.Dir)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	courseRepo := repository.NewCourseRepository(db)
	runRepo := repository.NewRefreshRunRepository(db)
	gradeRepo := repository.NewGradeRepository(gradesDB)
	majorRepo := repository.NewMajorRepository(majorStore, logr)

	if n, err := runRepo.FailStale(ctx, cfg.Refresh.Timeout); err != nil {
		logr.Warn("failed to close stale refresh runs", zap.Error(err))
	} else if n > 0 {
		logr.Info("closed stale refresh runs", zap.Int64("count", n))
	}

	scraper, err := catalog.NewScraper(cfg.Catalog, logr, catalog.WithObserver(metrics))
	if err != nil {
		logr.Sugar().Fatalw("invalid catalog configuration", "error", err)
	}

	var ratingsClient ratingsSource
	if cfg.Ratings.Enabled {
		ratingsClient = ratings.NewClient(cfg.Ratings, logr, ratings.WithObserver(metrics))
	} else {
		logr.Info("instructor ratings disabled")
	}

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	exportSvc := service.NewExportService(logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, exportSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, logr)
	ratingSvc := service.NewRatingService(ratingsClient, cacheSvc, cfg.Cache.TTL, validate, logr)
	majorSvc := service.NewMajorService(majorRepo, courseSvc, validate, cfg.Majors.DefaultMajor, logr)
	tokenSvc := service.NewAdminTokenService(service.AdminTokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	refreshSvc := service.NewRefreshService(scraper, ratingsClient, gradeRepo, courseRepo, runRepo, cacheSvc, metrics,
		service.RefreshServiceConfig{Categories: cfg.Catalog.GECategories, Timeout: cfg.Refresh.Timeout}, logr)

	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"grades":   gradesDB.PingContext,
		"redis":    cacheRepo.Ping,
	}

	engine := router.New(router.Config{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, router.Handlers{
		Courses: handler.NewCourseHandler(courseSvc),
		Grades:  handler.NewGradeHandler(gradeSvc),
		Ratings: handler.NewRatingHandler(ratingSvc),
		Majors:  handler.NewMajorHandler(majorSvc),
		Admin:   handler.NewAdminHandler(refreshSvc, metrics, logr),
		System:  handler.NewMetricsHandler(metrics, checks),
	}, metrics, tokenSvc, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The queue must accept jobs before the ticker's first enqueue.
	refreshSvc.Queue().Start(ctx)

	tree := supervisor.NewTree(logr, supervisor.DefaultTreeConfig())
	tree.AddWorker(refreshSvc.Queue())
	if cfg.Refresh.Enabled {
		tree.AddWorker(supervisor.NewRefreshTicker(refreshSvc, cfg.Refresh.Interval, cfg.Refresh.OnStart, logr))
	}
	tree.AddAPI(supervisor.NewHTTPService(server, 10*time.Second))

	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "refresh_interval", cfg.Refresh.Interval)
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logr.Sugar().Errorw("supervisor stopped", "error", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logr.Warn("services did not stop in time", zap.Int("count", len(report)))
	}
	logr.Info("server stopped")
}
