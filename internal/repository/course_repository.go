package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-api/internal/models"
)

const courseColumns = `id, teacher_id, name, posted_time, description, format, structure, duration, price, language, level`

// CourseRepository manages persistence for courses. Every lookup is scoped
// by the owning teacher id.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListByTeacher returns the teacher's courses; an empty slice when there are none.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int) ([]models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM course WHERE teacher_id = $1 ORDER BY id`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list courses for teacher %d: %w", teacherID, err)
	}
	return courses, nil
}

// FindByID fetches one course by teacher id and course id.
func (r *CourseRepository) FindByID(ctx context.Context, teacherID, courseID int) (*models.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM course WHERE teacher_id = $1 AND id = $2`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, teacherID, courseID); err != nil {
		return nil, fmt.Errorf("get course %d/%d: %w", teacherID, courseID, err)
	}
	return &course, nil
}

// Create inserts a course and reads it back within one transaction so the
// generated id and posted_time are returned.
func (r *CourseRepository) Create(ctx context.Context, input models.CreateCourse) (course *models.Course, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO course (teacher_id, name, description, format, structure, duration, price, language, level)
		VALUES (:teacher_id, :name, :description, :format, :structure, :duration, :price, :language, :level)
		RETURNING id`
	query, args, err := tx.BindNamed(insert, input)
	if err != nil {
		return nil, fmt.Errorf("bind create course: %w", err)
	}
	var id int
	if err = tx.GetContext(ctx, &id, query, args...); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	course = &models.Course{}
	if err = tx.GetContext(ctx, course, `SELECT `+courseColumns+` FROM course WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("read back course %d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create course: %w", err)
	}
	return course, nil
}

// Update merges patch into the stored course and returns the row as re-read after the write.
// A missing course surfaces as a wrapped sql.ErrNoRows.
func (r *CourseRepository) Update(ctx context.Context, teacherID, courseID int, patch models.UpdateCourse) (course *models.Course, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectOne = `SELECT ` + courseColumns + ` FROM course WHERE teacher_id = $1 AND id = $2`
	var current models.Course
	if err = tx.GetContext(ctx, &current, selectOne+` FOR UPDATE`, teacherID, courseID); err != nil {
		return nil, fmt.Errorf("get course %d/%d: %w", teacherID, courseID, err)
	}

	merged := patch.Apply(current)
	const update = `UPDATE course SET name = :name, description = :description, format = :format,
		structure = :structure, duration = :duration, price = :price, language = :language, level = :level
		WHERE teacher_id = :teacher_id AND id = :id`
	if _, err = tx.NamedExecContext(ctx, update, merged); err != nil {
		return nil, fmt.Errorf("update course %d/%d: %w", teacherID, courseID, err)
	}

	course = &models.Course{}
	if err = tx.GetContext(ctx, course, selectOne, teacherID, courseID); err != nil {
		return nil, fmt.Errorf("read back course %d/%d: %w", teacherID, courseID, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update course: %w", err)
	}
	return course, nil
}

// Delete removes one course and reports how many rows were affected.
func (r *CourseRepository) Delete(ctx context.Context, teacherID, courseID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course WHERE teacher_id = $1 AND id = $2`, teacherID, courseID)
	if err != nil {
		return 0, fmt.Errorf("delete course %d/%d: %w", teacherID, courseID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete course %d/%d rows affected: %w", teacherID, courseID, err)
	}
	return affected, nil
}
