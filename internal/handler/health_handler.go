package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-api/internal/app"
	"github.com/noah-isme/tutor-api/pkg/response"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	VisitCount int    `json:"visit_count"`
}

// HealthHandler reports liveness from the shared state.
type HealthHandler struct {
	state *app.State
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(state *app.State) *HealthHandler {
	return &HealthHandler{state: state}
}

// Health godoc
// @Summary Health check
// @Tags General
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, HealthResponse{
		Status:     h.state.HealthCheckResponse,
		VisitCount: h.state.VisitCount(),
	})
}
