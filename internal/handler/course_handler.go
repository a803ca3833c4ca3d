package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-api/internal/models"
	"github.com/noah-isme/tutor-api/internal/service"
	"github.com/noah-isme/tutor-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, teacherID int) ([]models.Course, error)
	Get(ctx context.Context, teacherID, courseID int) (*models.Course, error)
	Create(ctx context.Context, teacherID int, req models.CreateCourse) (*models.Course, error)
	Update(ctx context.Context, teacherID, courseID int, req models.UpdateCourse) (*models.Course, error)
	Delete(ctx context.Context, teacherID, courseID int) (string, error)
}

type catalogExporter interface {
	CourseCatalog(ctx context.Context, teacherID int, format string) (*service.ExportResult, error)
}

// CourseHandler serves course routes nested under a teacher.
type CourseHandler struct {
	courses  courseService
	exporter catalogExporter
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses courseService, exporter catalogExporter) *CourseHandler {
	return &CourseHandler{courses: courses, exporter: exporter}
}

// List godoc
// @Summary List courses of a teacher
// @Tags Courses
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {array} models.Course
// @Router /teachers/{teacher_id}/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	teacherID, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.courses.List(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Param course_id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} response.ErrorBody
// @Router /teachers/{teacher_id}/courses/{course_id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), teacherID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Param payload body models.CreateCourse true "Course payload"
// @Success 200 {object} models.Course
// @Failure 400 {object} response.ErrorBody
// @Router /teachers/{teacher_id}/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	teacherID, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateCourse
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), teacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Param course_id path int true "Course ID"
// @Param payload body models.UpdateCourse true "Fields to change"
// @Success 200 {object} models.Course
// @Failure 404 {object} response.ErrorBody
// @Router /teachers/{teacher_id}/courses/{course_id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateCourse
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), teacherID, courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Param course_id path int true "Course ID"
// @Success 200 {string} string "Deleted 1 record(s)"
// @Router /teachers/{teacher_id}/courses/{course_id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.courses.Delete(c.Request.Context(), teacherID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// Export godoc
// @Summary Export a teacher's course catalog
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param teacher_id path int true "Teacher ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /teachers/{teacher_id}/courses/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	teacherID, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.CourseCatalog(c.Request.Context(), teacherID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func coursePath(c *gin.Context) (int, int, error) {
	teacherID, err := pathInt(c, "teacher_id")
	if err != nil {
		return 0, 0, err
	}
	courseID, err := pathInt(c, "course_id")
	if err != nil {
		return 0, 0, err
	}
	return teacherID, courseID, nil
}
