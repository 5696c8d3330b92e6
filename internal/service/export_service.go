package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
	"github.com/noah-isme/slugtistics-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var courseExportHeaders = []string{"GE", "Code", "Name", "Instructor", "Schedule", "Location", "Enrolled", "Status", "GPA", "Rating"}

// ExportService renders course listings as downloadable files.
type ExportService struct {
	renderers map[string]export.Exporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		renderers: map[string]export.Exporter{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Render builds the export for the given courses.
func (s *ExportService) Render(format string, courses []models.MergedCourseRecord, generatedAt time.Time) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	payload, err := renderer.Render(courseDataset(courses, generatedAt))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("course export rendered", zap.String("format", format), zap.Int("courses", len(courses)), zap.Int("bytes", len(payload)))

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("courses_%s.%s", generatedAt.UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        payload,
	}, nil
}

func courseDataset(courses []models.MergedCourseRecord, generatedAt time.Time) export.Dataset {
	rows := make([]map[string]string, 0, len(courses))
	for _, course := range courses {
		rating := ""
		if course.InstructorRatings != nil {
			rating = fmt.Sprintf("%.1f (%d)", course.InstructorRatings.AvgRating, course.InstructorRatings.NumRatings)
		}
		rows = append(rows, map[string]string{
			"GE":         course.GE,
			"Code":       course.Code,
			"Name":       course.Name,
			"Instructor": course.Instructor,
			"Schedule":   course.Schedule,
			"Location":   course.Location,
			"Enrolled":   course.ClassCount,
			"Status":     course.ClassStatus,
			"GPA":        course.GPA.String(),
			"Rating":     rating,
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Course listing (%s)", generatedAt.UTC().Format(time.RFC3339)),
		Headers: courseExportHeaders,
		Rows:    rows,
	}
}
