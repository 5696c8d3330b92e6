package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/handler"
	"github.com/noah-isme/slugtistics-api/internal/middleware"
	"github.com/noah-isme/slugtistics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/slugtistics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/slugtistics-api/pkg/middleware/requestid"
)

// Config controls router-wide behaviour.
type Config struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
}

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Courses *handler.CourseHandler
	Grades  *handler.GradeHandler
	Ratings *handler.RatingHandler
	Majors  *handler.MajorHandler
	Admin   *handler.AdminHandler
	System  *handler.MetricsHandler
}

// New builds the gin engine with the middleware chain and all routes.
func New(cfg Config, h Handlers, observer middleware.RequestObserver, admin middleware.AdminTokenValidator, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	if observer != nil {
		r.Use(middleware.Metrics(observer))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	r.GET("/metrics", h.System.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/"
	}
	api := r.Group(prefix)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.Grouped)
	courses.GET("/all", h.Courses.List)
	courses.GET("/ge", h.Courses.GECategories)
	courses.GET("/export", h.Courses.Export)
	courses.GET("/:enrollNum", h.Courses.Details)
	api.GET("/prereq/:code", h.Courses.Prerequisites)
	api.GET("/last-update", h.Courses.LastUpdate)

	api.GET("/instructor-ratings", h.Ratings.Profile)

	grades := api.Group("/grades")
	grades.GET("/classes", h.Grades.Classes)
	grades.GET("/:code/instructors", h.Grades.Instructors)
	grades.GET("/:code/quarters", h.Grades.Quarters)
	grades.GET("/:code/distribution", h.Grades.Distribution)
	grades.GET("/:code/class-info", h.Grades.ClassInfo)
	grades.GET("/:code/gpa", h.Grades.GPA)

	majors := api.Group("/majors")
	majors.GET("", h.Majors.List)
	majors.GET("/recommendations", h.Majors.Recommendations)
	majors.GET("/:major/courses", h.Majors.Courses)
	majors.GET("/:major/groups", h.Majors.Groups)
	majors.POST("/:major/progress", h.Majors.Progress)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminJWT(admin))
	adminGroup.POST("/refresh", h.Admin.TriggerRefresh)
	adminGroup.GET("/refresh/runs", h.Admin.Runs)
	adminGroup.GET("/metrics", h.Admin.Metrics)
	adminGroup.PUT("/majors/:major", h.Majors.Upload)

	return r
}
