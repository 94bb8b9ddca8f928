package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/config"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	router, err := newRouter(cfg, metrics.NewNop())
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(1, 1, clockwork.NewFakeClock())
	router.POST("/write", limiter.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.ClientIP())
	})
	return router
}

func postFrom(router *gin.Engine, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestForwardedForIgnoredWithoutTrustedProxies(t *testing.T) {
	router := limitedRouter(t, &config.Config{})

	first := postFrom(router, "203.0.113.7:4000", "198.51.100.1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "203.0.113.7", first.Body.String())

	// A new spoofed address does not buy a fresh bucket.
	second := postFrom(router, "203.0.113.7:4001", "198.51.100.2")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestForwardedForHonouredFromTrustedProxy(t *testing.T) {
	router := limitedRouter(t, &config.Config{TrustedProxies: []string{"10.0.0.0/8"}})

	first := postFrom(router, "10.1.2.3:4000", "198.51.100.1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "198.51.100.1", first.Body.String())

	second := postFrom(router, "10.1.2.3:4001", "198.51.100.2")
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestNewRouterRejectsBadProxy(t *testing.T) {
	_, err := newRouter(&config.Config{TrustedProxies: []string{"not-an-ip"}}, metrics.NewNop())
	assert.Error(t, err)
}
