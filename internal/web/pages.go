// Package web renders the server-side HTML pages of the course catalog.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/app"
	"github.com/noah-isme/tutor-api/internal/models"
	"github.com/noah-isme/tutor-api/internal/service"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
	"github.com/noah-isme/tutor-api/pkg/logger"
	"github.com/noah-isme/tutor-api/pkg/response"
)

//go:embed templates/*.html
var embedded embed.FS

type teacherReader interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Get(ctx context.Context, id int) (*models.Teacher, error)
}

type courseReader interface {
	List(ctx context.Context, teacherID int) ([]models.Course, error)
}

type catalogExporter interface {
	CourseCatalog(ctx context.Context, teacherID int, format string) (*service.ExportResult, error)
}

// Pages serves the HTML front end.
type Pages struct {
	tmpl     *template.Template
	teachers teacherReader
	courses  courseReader
	exporter catalogExporter
	state    *app.State
}

// LoadTemplates parses the page templates from dir, or from the embedded set when dir is empty.
func LoadTemplates(dir string) (*template.Template, error) {
	base := template.New("pages").Funcs(template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"price": func(p *float64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprintf("%.2f", *p)
		},
	})
	if dir != "" {
		return base.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return base.ParseFS(embedded, "templates/*.html")
}

// NewPages constructs the page handlers.
func NewPages(tmpl *template.Template, teachers teacherReader, courses courseReader, exporter catalogExporter, state *app.State) *Pages {
	return &Pages{tmpl: tmpl, teachers: teachers, courses: courses, exporter: exporter, state: state}
}

// RegisterRoutes mounts the web app routes.
func (p *Pages) RegisterRoutes(r gin.IRouter) {
	r.GET("/", p.Index)
	r.GET("/teachers/:teacher_id", p.Teacher)
	r.GET("/teachers/:teacher_id/courses/export", p.Export)
	r.GET("/health", p.Health)
}

// Index lists every teacher.
func (p *Pages) Index(c *gin.Context) {
	teachers, err := p.teachers.List(c.Request.Context())
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		p.fail(c, err)
		return
	}
	p.render(c, "index.html", gin.H{"Title": "Teachers", "Teachers": teachers})
}

// Teacher shows one teacher with their courses.
func (p *Pages) Teacher(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		p.fail(c, err)
		return
	}
	teacher, err := p.teachers.Get(c.Request.Context(), id)
	if err != nil {
		p.fail(c, err)
		return
	}
	courses, err := p.courses.List(c.Request.Context(), id)
	if err != nil {
		p.fail(c, err)
		return
	}
	p.render(c, "teacher.html", gin.H{
		"Title":     teacher.Name,
		"Teacher":   teacher,
		"Courses":   courses,
		"ExportURL": fmt.Sprintf("/teachers/%d/courses/export?format=csv", id),
	})
}

// Export streams the teacher's course catalog as a download.
func (p *Pages) Export(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		p.fail(c, err)
		return
	}
	result, err := p.exporter.CourseCatalog(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		p.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

// Health mirrors the API health payload.
func (p *Pages) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": p.state.HealthCheckResponse, "visit_count": p.state.VisitCount()})
}

// render executes into a buffer so a failing template never leaves a half-written page.
func (p *Pages) render(c *gin.Context, name string, data gin.H) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		response.Error(c, appErrors.Template(fmt.Sprintf("execute %s: %v", name, err), err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// fail renders the error page; if that template is broken too, it falls back to the JSON body.
func (p *Pages) fail(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.From(c).Error("page failed", zap.String("kind", string(appErr.Kind)), zap.String("detail", appErr.Detail))
	}

	var buf bytes.Buffer
	data := gin.H{"Title": http.StatusText(appErr.Status), "Status": appErr.Status, "Message": appErr.Message}
	if tmplErr := p.tmpl.ExecuteTemplate(&buf, "error.html", data); tmplErr != nil {
		response.Error(c, appErr)
		return
	}
	c.Data(appErr.Status, "text/html; charset=utf-8", buf.Bytes())
	c.Abort()
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.ParseInt(c.Param("teacher_id"), 10, 32)
	if err != nil {
		return 0, appErrors.InvalidInput("invalid teacher_id", err)
	}
	return int(id), nil
}
