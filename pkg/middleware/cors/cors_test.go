package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func preflight(t *testing.T, allowed []string, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.GET("/teachers", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/teachers", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDefaultPolicyAllowsLocalhost(t *testing.T) {
	w := preflight(t, nil, "http://localhost:8080")
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(t, nil, "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfiguredOrigins(t *testing.T) {
	allowed := []string{"https://tutor.example.com/"}

	w := preflight(t, allowed, "https://tutor.example.com")
	assert.Equal(t, "https://tutor.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(t, allowed, "http://localhost:3000")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowOrigin(t *testing.T) {
	assert.True(t, allowOrigin(map[string]struct{}{}, "http://localhost"))
	assert.False(t, allowOrigin(map[string]struct{}{"https://a.example": {}}, "https://b.example"))
}
