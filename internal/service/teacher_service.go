package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/models"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
)

const (
	msgNoTeachers      = "No teachers found"
	msgTeacherNotFound = "Teacher id not found"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id int) (*models.Teacher, error)
	Create(ctx context.Context, input models.CreateTeacher) (*models.Teacher, error)
	Update(ctx context.Context, id int, patch models.UpdateTeacher) (*models.Teacher, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService. cache and metrics may be nil.
func NewTeacherService(repo teacherRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every teacher. An empty table is reported as not found.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	start := time.Now()
	teachers, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("teacher_list", start, err)
	if err != nil {
		return nil, appErrors.FromDB(err)
	}
	if len(teachers) == 0 {
		return nil, appErrors.NotFound(msgNoTeachers)
	}
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int) (*models.Teacher, error) {
	key := teacherCacheKey(id)
	var cached models.Teacher
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	snap := s.cache.Snapshot(ctx, key)
	start := time.Now()
	teacher, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("teacher_get", start, err)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cache.Fill(ctx, key, teacher, snap)
	return teacher, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req models.CreateTeacher) (*models.Teacher, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	start := time.Now()
	teacher, err := s.repo.Create(ctx, req)
	s.metrics.ObserveDBQuery("teacher_create", start, err)
	if err != nil {
		return nil, appErrors.FromDB(err)
	}

	s.logger.Info("teacher created", zap.Int("teacher_id", teacher.ID))
	return teacher, nil
}

// Update applies a partial update and returns the stored record.
func (s *TeacherService) Update(ctx context.Context, id int, req models.UpdateTeacher) (*models.Teacher, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	start := time.Now()
	teacher, err := s.repo.Update(ctx, id, req)
	s.metrics.ObserveDBQuery("teacher_update", start, err)
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.cache.Invalidate(ctx, teacherCacheKey(id))
	return teacher, nil
}

// Delete removes a teacher and reports how many rows went away.
func (s *TeacherService) Delete(ctx context.Context, id int) (string, error) {
	start := time.Now()
	affected, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBQuery("teacher_delete", start, err)
	if err != nil {
		return "", appErrors.FromDB(err)
	}

	s.cache.Invalidate(ctx, teacherCacheKey(id))
	s.cache.InvalidatePattern(ctx, courseCachePattern(id))
	if affected > 0 {
		s.logger.Info("teacher deleted", zap.Int("teacher_id", id))
	}
	return deletedMessage(affected), nil
}

func (s *TeacherService) mapErr(err error) error {
	if isNoRows(err) {
		return appErrors.NotFound(msgTeacherNotFound)
	}
	return appErrors.FromDB(err)
}

func deletedMessage(affected int64) string {
	return fmt.Sprintf("Deleted %d record(s)", affected)
}
