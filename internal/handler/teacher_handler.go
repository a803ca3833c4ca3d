package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-api/internal/models"
	"github.com/noah-isme/tutor-api/pkg/response"
)

type teacherService interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Get(ctx context.Context, id int) (*models.Teacher, error)
	Create(ctx context.Context, req models.CreateTeacher) (*models.Teacher, error)
	Update(ctx context.Context, id int, req models.UpdateTeacher) (*models.Teacher, error)
	Delete(ctx context.Context, id int) (string, error)
}

// TeacherHandler wires teacher services to HTTP routes.
type TeacherHandler struct {
	teachers teacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers teacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Success 200 {array} models.Teacher
// @Failure 404 {object} response.ErrorBody
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teachers)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {object} models.Teacher
// @Failure 404 {object} response.ErrorBody
// @Router /teachers/{teacher_id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	id, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacher true "Teacher payload"
// @Success 200 {object} models.Teacher
// @Failure 400 {object} response.ErrorBody
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req models.CreateTeacher
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Param payload body models.UpdateTeacher true "Fields to change"
// @Success 200 {object} models.Teacher
// @Failure 404 {object} response.ErrorBody
// @Router /teachers/{teacher_id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	id, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateTeacher
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Teachers
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {string} string "Deleted 1 record(s)"
// @Router /teachers/{teacher_id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := pathInt(c, "teacher_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.teachers.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}
