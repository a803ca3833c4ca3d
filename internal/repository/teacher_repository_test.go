package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-api/internal/models"
)

var teacherRowColumns = []string{"id", "name", "picture_url", "profile"}

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows(teacherRowColumns).
		AddRow(1, "Ada", "https://img/ada.png", "Systems").
		AddRow(2, "Linus", "https://img/linus.png", "Kernels")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, picture_url, profile FROM teacher ORDER BY id")).
		WillReturnRows(rows)

	teachers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Linus", teachers[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("FROM teacher ORDER BY id").WillReturnRows(sqlmock.NewRows(teacherRowColumns))

	teachers, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)
}

func TestTeacherRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher WHERE id = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(teacherRowColumns))

	_, err := repo.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTeacherRepositoryCreateReadsBackInTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teacher (name, picture_url, profile) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("A", "u", "p").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(teacherRowColumns).AddRow(7, "A", "u", "p"))
	mock.ExpectCommit()

	teacher, err := repo.Create(context.Background(), models.CreateTeacher{Name: "A", PictureURL: "u", Profile: "p"})
	require.NoError(t, err)
	assert.Equal(t, models.Teacher{ID: 7, Name: "A", PictureURL: "u", Profile: "p"}, *teacher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO teacher").WillReturnError(errors.New("pq: value too long"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), models.CreateTeacher{Name: "A", PictureURL: "u", Profile: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create teacher")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateMergesAndRereads(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(teacherRowColumns).AddRow(5, "X", "u", "p"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher SET name = $1, picture_url = $2, profile = $3 WHERE id = $4")).
		WithArgs("X", "u", "updated", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher WHERE id = $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(teacherRowColumns).AddRow(5, "X", "u", "updated"))
	mock.ExpectCommit()

	profile := "updated"
	teacher, err := repo.Update(context.Background(), 5, models.UpdateTeacher{Profile: &profile})
	require.NoError(t, err)
	assert.Equal(t, "X", teacher.Name)
	assert.Equal(t, "updated", teacher.Profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(5).WillReturnRows(sqlmock.NewRows(teacherRowColumns))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 5, models.UpdateTeacher{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher WHERE id = $1")).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
