package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New(origins))
	router.GET("/classes", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestPreflightShortCircuits(t *testing.T) {
	req, _ := http.NewRequest(http.MethodOptions, "/classes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownOriginIsNotEchoed(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/classes", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	newRouter([]string{"https://proffy.app/"}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestKnownOriginIsEchoed(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/classes", nil)
	req.Header.Set("Origin", "https://proffy.app")
	w := httptest.NewRecorder()
	newRouter([]string{"https://proffy.app/"}).ServeHTTP(w, req)

	assert.Equal(t, "https://proffy.app", w.Header().Get("Access-Control-Allow-Origin"))
}
