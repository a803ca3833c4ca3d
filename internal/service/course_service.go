package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/models"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
)

const msgCourseNotFound = "Course ID not found"

type courseRepository interface {
	ListByTeacher(ctx context.Context, teacherID int) ([]models.Course, error)
	FindByID(ctx context.Context, teacherID, courseID int) (*models.Course, error)
	Create(ctx context.Context, input models.CreateCourse) (*models.Course, error)
	Update(ctx context.Context, teacherID, courseID int, patch models.UpdateCourse) (*models.Course, error)
	Delete(ctx context.Context, teacherID, courseID int) (int64, error)
}

// CourseService orchestrates course operations scoped to one teacher.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. cache and metrics may be nil.
func NewCourseService(repo courseRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns the teacher's courses; an empty list is not an error.
func (s *CourseService) List(ctx context.Context, teacherID int) ([]models.Course, error) {
	start := time.Now()
	courses, err := s.repo.ListByTeacher(ctx, teacherID)
	s.metrics.ObserveDBQuery("course_list", start, err)
	if err != nil {
		return nil, appErrors.FromDB(err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get returns one course owned by teacherID.
func (s *CourseService) Get(ctx context.Context, teacherID, courseID int) (*models.Course, error) {
	key := courseCacheKey(teacherID, courseID)
	var cached models.Course
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	// Deleting the teacher drops its courses, so the teacher key guards the fill too.
	snap := s.cache.Snapshot(ctx, key, teacherCacheKey(teacherID))
	start := time.Now()
	course, err := s.repo.FindByID(ctx, teacherID, courseID)
	s.metrics.ObserveDBQuery("course_get", start, err)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cache.Fill(ctx, key, course, snap)
	return course, nil
}

// Create stores a course for teacherID. A body teacher_id that disagrees with the path is rejected.
func (s *CourseService) Create(ctx context.Context, teacherID int, req models.CreateCourse) (*models.Course, error) {
	if req.TeacherID == 0 {
		req.TeacherID = teacherID
	}
	if req.TeacherID != teacherID {
		return nil, appErrors.InvalidInput("teacher_id does not match path", nil)
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	start := time.Now()
	course, err := s.repo.Create(ctx, req)
	s.metrics.ObserveDBQuery("course_create", start, err)
	if err != nil {
		return nil, appErrors.FromDB(err)
	}

	s.logger.Info("course created", zap.Int("teacher_id", teacherID), zap.Int("course_id", course.ID))
	return course, nil
}

// Update applies a partial update to one of the teacher's courses.
func (s *CourseService) Update(ctx context.Context, teacherID, courseID int, req models.UpdateCourse) (*models.Course, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	start := time.Now()
	course, err := s.repo.Update(ctx, teacherID, courseID, req)
	s.metrics.ObserveDBQuery("course_update", start, err)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cache.Invalidate(ctx, courseCacheKey(teacherID, courseID))
	return course, nil
}

// Delete removes one course and reports how many rows went away.
func (s *CourseService) Delete(ctx context.Context, teacherID, courseID int) (string, error) {
	start := time.Now()
	affected, err := s.repo.Delete(ctx, teacherID, courseID)
	s.metrics.ObserveDBQuery("course_delete", start, err)
	if err != nil {
		return "", appErrors.FromDB(err)
	}

	s.cache.Invalidate(ctx, courseCacheKey(teacherID, courseID))
	return deletedMessage(affected), nil
}

func (s *CourseService) mapErr(err error) error {
	if isNoRows(err) {
		return appErrors.NotFound(msgCourseNotFound)
	}
	return appErrors.FromDB(err)
}
