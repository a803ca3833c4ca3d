package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-api/internal/models"
)

const teacherColumns = `id, name, picture_url, profile`

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns every teacher ordered by id.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT ` + teacherColumns + ` FROM teacher ORDER BY id`
	teachers := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by ID. It returns sql.ErrNoRows (wrapped) when absent.
func (r *TeacherRepository) FindByID(ctx context.Context, id int) (*models.Teacher, error) {
	const query = `SELECT ` + teacherColumns + ` FROM teacher WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, fmt.Errorf("get teacher %d: %w", id, err)
	}
	return &teacher, nil
}

// Create inserts a teacher and reads the stored row back within one transaction.
func (r *TeacherRepository) Create(ctx context.Context, input models.CreateTeacher) (teacher *models.Teacher, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id int
	const insert = `INSERT INTO teacher (name, picture_url, profile) VALUES ($1, $2, $3) RETURNING id`
	if err = tx.GetContext(ctx, &id, insert, input.Name, input.PictureURL, input.Profile); err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}

	teacher = &models.Teacher{}
	if err = tx.GetContext(ctx, teacher, `SELECT `+teacherColumns+` FROM teacher WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("read back teacher %d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create teacher: %w", err)
	}
	return teacher, nil
}

// Update merges patch into the stored teacher and returns the row as re-read after the write.
// A missing teacher surfaces as a wrapped sql.ErrNoRows.
func (r *TeacherRepository) Update(ctx context.Context, id int, patch models.UpdateTeacher) (teacher *models.Teacher, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Teacher
	if err = tx.GetContext(ctx, &current, `SELECT `+teacherColumns+` FROM teacher WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, fmt.Errorf("get teacher %d: %w", id, err)
	}

	merged := patch.Apply(current)
	const update = `UPDATE teacher SET name = :name, picture_url = :picture_url, profile = :profile WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, update, merged); err != nil {
		return nil, fmt.Errorf("update teacher %d: %w", id, err)
	}

	teacher = &models.Teacher{}
	if err = tx.GetContext(ctx, teacher, `SELECT `+teacherColumns+` FROM teacher WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("read back teacher %d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update teacher: %w", err)
	}
	return teacher, nil
}

// Delete removes a teacher and reports how many rows were affected.
func (r *TeacherRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete teacher %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete teacher %d rows affected: %w", id, err)
	}
	return affected, nil
}
