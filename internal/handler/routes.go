package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler the teacher service mounts.
type Handlers struct {
	Health   *HealthHandler
	Teachers *TeacherHandler
	Courses  *CourseHandler
	Metrics  *MetricsHandler
}

// RegisterRoutes attaches the route table to r.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", h.Health.Health)

	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	teachers := r.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.POST("", h.Teachers.Create)
		teachers.GET("/:teacher_id", h.Teachers.Get)
		teachers.PUT("/:teacher_id", h.Teachers.Update)
		teachers.DELETE("/:teacher_id", h.Teachers.Delete)

		courses := teachers.Group("/:teacher_id/courses")
		courses.GET("", h.Courses.List)
		courses.POST("", h.Courses.Create)
		courses.GET("/export", h.Courses.Export)
		courses.GET("/:course_id", h.Courses.Get)
		courses.PUT("/:course_id", h.Courses.Update)
		courses.DELETE("/:course_id", h.Courses.Delete)
	}
}
