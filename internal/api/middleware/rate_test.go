package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateRouter(cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(cfg))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	router := rateRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	router := rateRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})

	var last *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest("GET", "/", nil))
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), `"success":false`)
}

func TestEvictStale(t *testing.T) {
	now := time.Now()
	clients := map[string]*rateClient{
		"1.1.1.1": {limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-10 * time.Minute)},
		"2.2.2.2": {limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Second)},
	}

	evictStale(clients, now, clientTTL)

	assert.NotContains(t, clients, "1.1.1.1")
	assert.Contains(t, clients, "2.2.2.2")
}
