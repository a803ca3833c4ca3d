package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
	"github.com/noah-isme/tutor-api/pkg/response"
)

// Recovery turns a panic into the standard 500 error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		response.Error(c, appErrors.Upstream(fmt.Sprintf("panic: %v", recovered), nil))
	})
}
