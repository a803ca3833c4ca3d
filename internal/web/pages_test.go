package web

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-api/internal/app"
	"github.com/noah-isme/tutor-api/internal/models"
	"github.com/noah-isme/tutor-api/internal/service"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
)

type fakeTeachers struct {
	items   []models.Teacher
	listErr error
}

func (f *fakeTeachers) List(ctx context.Context) ([]models.Teacher, error) {
	return f.items, f.listErr
}

func (f *fakeTeachers) Get(ctx context.Context, id int) (*models.Teacher, error) {
	for _, t := range f.items {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, appErrors.NotFound("Teacher id not found")
}

type fakeCourses struct {
	items []models.Course
}

func (f *fakeCourses) List(ctx context.Context, teacherID int) ([]models.Course, error) {
	return f.items, nil
}

type fakeExporter struct{}

func (fakeExporter) CourseCatalog(ctx context.Context, teacherID int, format string) (*service.ExportResult, error) {
	return &service.ExportResult{Filename: "teacher_1_courses.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("id\n")}, nil
}

func newPagesRouter(t *testing.T, tmpl *template.Template, teachers *fakeTeachers, courses *fakeCourses) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if tmpl == nil {
		var err error
		tmpl, err = LoadTemplates("")
		require.NoError(t, err)
	}
	r := gin.New()
	NewPages(tmpl, teachers, courses, fakeExporter{}, app.NewState("I'm OK.", nil)).RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndexListsTeachers(t *testing.T) {
	r := newPagesRouter(t, nil, &fakeTeachers{items: []models.Teacher{{ID: 1, Name: "Ada <Lovelace>"}}}, &fakeCourses{})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `<a href="/teachers/1">Ada &lt;Lovelace&gt;</a>`)
}

func TestIndexWithoutTeachers(t *testing.T) {
	r := newPagesRouter(t, nil, &fakeTeachers{listErr: appErrors.NotFound("No teachers found")}, &fakeCourses{})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No teachers yet.")
}

func TestTeacherPageShowsCourses(t *testing.T) {
	price := 25.0
	hours := 10
	lang := "English"
	r := newPagesRouter(t, nil,
		&fakeTeachers{items: []models.Teacher{{ID: 1, Name: "Ada", Profile: "Mathematician"}}},
		&fakeCourses{items: []models.Course{{ID: 3, TeacherID: 1, Name: "Engines", Price: &price, Duration: &hours, Language: &lang}}},
	)

	w := get(r, "/teachers/1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Mathematician")
	assert.Contains(t, body, "<td>Engines</td>")
	assert.Contains(t, body, "<td>25.00</td>")
	assert.Contains(t, body, "<td>10 h</td>")
	assert.Contains(t, body, "/teachers/1/courses/export?format=csv")
}

func TestUnknownTeacherRendersNotFound(t *testing.T) {
	r := newPagesRouter(t, nil, &fakeTeachers{}, &fakeCourses{})

	w := get(r, "/teachers/9")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Teacher id not found")
}

func TestTeacherIDOutsideInt32IsBadRequest(t *testing.T) {
	r := newPagesRouter(t, nil, &fakeTeachers{}, &fakeCourses{})

	for _, path := range []string{"/teachers/3000000000", "/teachers/3000000000/courses/export"} {
		w := get(r, path)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "invalid teacher_id", path)
	}
}

func TestBrokenTemplateIsTemplateError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`{{template "missing" .}}`), 0o600))
	tmpl, err := LoadTemplates(dir)
	require.NoError(t, err)

	r := newPagesRouter(t, tmpl, &fakeTeachers{items: []models.Teacher{{ID: 1, Name: "Ada"}}}, &fakeCourses{})

	w := get(r, "/")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error_msg":"Template rendering error"}`, w.Body.String())
}

func TestExportAndHealth(t *testing.T) {
	r := newPagesRouter(t, nil, &fakeTeachers{}, &fakeCourses{})

	w := get(r, "/teachers/1/courses/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "id\n", w.Body.String())

	w = get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"I'm OK.","visit_count":0}`, w.Body.String())
}
