package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func doRequest(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSUsaOrigensAtuais(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origins := []string{"http://a.local"}
	router := gin.New()
	router.Use(CORS(func() []string { return origins }))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, "http://b.local")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// origem liberada depois de recarga de configuração
	origins = []string{"http://a.local", "http://b.local"}
	w = doRequest(router, "http://b.local")
	assert.Equal(t, "http://b.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterUsaLimitesAtuais(t *testing.T) {
	gin.SetMode(gin.TestMode)
	maxRequests := 1
	router := gin.New()
	router.Use(RateLimiter(func() (int, time.Duration) { return maxRequests, time.Minute }))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "").Code)

	// limite maior descarta os limitadores antigos
	maxRequests = 100
	assert.Equal(t, http.StatusOK, doRequest(router, "").Code)
}
