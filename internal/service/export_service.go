package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/models"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
	"github.com/noah-isme/tutor-api/pkg/export"
)

var courseExportColumns = []string{"id", "name", "time", "description", "format", "structure", "duration", "price", "language", "level"}

// ExportResult is a rendered course catalog ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a teacher's course catalog as CSV or PDF.
type ExportService struct {
	teachers *TeacherService
	courses  *CourseService
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(teachers *TeacherService, courses *CourseService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{teachers: teachers, courses: courses, logger: logger}
}

// CourseCatalog renders every course of teacherID in the requested format.
func (s *ExportService) CourseCatalog(ctx context.Context, teacherID int, rawFormat string) (*ExportResult, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.InvalidInput("format must be csv or pdf", err)
	}

	teacher, err := s.teachers.Get(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   fmt.Sprintf("Courses by %s", teacher.Name),
		Columns: courseExportColumns,
		Rows:    make([][]string, 0, len(courses)),
	}
	for _, c := range courses {
		table.Rows = append(table.Rows, courseRow(c))
	}

	body, err := export.Render(format, table)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, appErrors.InvalidInput("format must be csv or pdf", err)
		}
		return nil, appErrors.Upstream("render course export", err)
	}

	s.logger.Info("course catalog exported",
		zap.Int("teacher_id", teacherID),
		zap.String("format", string(format)),
		zap.Int("rows", len(courses)),
	)
	return &ExportResult{
		Filename:    fmt.Sprintf("teacher_%d_courses.%s", teacherID, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func courseRow(c models.Course) []string {
	row := []string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Time.UTC().Format(time.RFC3339),
		deref(c.Description),
		deref(c.Format),
		deref(c.Structure),
		"",
		"",
		deref(c.Language),
		deref(c.Level),
	}
	if c.Duration != nil {
		row[6] = strconv.Itoa(*c.Duration)
	}
	if c.Price != nil {
		row[7] = strconv.FormatFloat(*c.Price, 'f', 2, 64)
	}
	return row
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
