package cors

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const localOriginPrefix = "http://localhost"

// New returns CORS middleware for the configured origins. With no origins
// configured only local development origins (http://localhost*) are accepted.
func New(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowOrigin(originSet, origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Accept", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	})
}

func allowOrigin(originSet map[string]struct{}, origin string) bool {
	if len(originSet) == 0 {
		return strings.HasPrefix(origin, localOriginPrefix)
	}
	_, ok := originSet[strings.TrimRight(origin, "/")]
	return ok
}
