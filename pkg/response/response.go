package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
	"github.com/noah-isme/tutor-api/pkg/logger"
)

// ErrorBody is the single-field error contract shared by every endpoint.
type ErrorBody struct {
	ErrorMsg string `json:"error_msg"`
}

// JSON writes payload as the response body.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Error logs the server-side detail of err and writes only its client-safe message.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)

	fields := []zap.Field{
		zap.String("kind", string(appErr.Kind)),
		zap.Int("status", appErr.Status),
		zap.String("detail", appErr.Detail),
	}
	if appErr.Status >= http.StatusInternalServerError {
		logger.From(c).Error("request failed", append(fields, zap.Error(appErr.Err))...)
	} else {
		logger.From(c).Info("request rejected", fields...)
	}

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{ErrorMsg: appErr.Message})
}
