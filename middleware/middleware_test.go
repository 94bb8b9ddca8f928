package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/database"
	"github.com/project-nexus/models"
	"github.com/project-nexus/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T, clock clockwork.Clock) *services.AuthService {
	t.Helper()
	return services.NewAuthService(database.NewTestDB(t), "middleware-secret", time.Hour, clock)
}

func whoAmI(c *gin.Context) {
	p := CurrentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{"user": p.UserID, "role": string(p.Role)})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareResolvesIdentity(t *testing.T) {
	clock := clockwork.NewFakeClock()
	auth := newAuth(t, clock)
	token, _, err := auth.GenerateToken(&models.User{ID: "u-1", Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), whoAmI)

	t.Run("anonymous", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"","role":""}`, w.Body.String())
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"u-1","role":"admin"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"u-1","role":"admin"}`, w.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthAndAdmin(t *testing.T) {
	auth := newAuth(t, clockwork.NewRealClock())
	userToken, _, err := auth.GenerateToken(&models.User{ID: "u-1", Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := auth.GenerateToken(&models.User{ID: "u-2", Role: models.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/private", RequireAuth(), whoAmI)
	r.GET("/admin", AdminMiddleware(), whoAmI)

	request := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusUnauthorized, request("/private", ""))
	assert.Equal(t, http.StatusOK, request("/private", userToken))
	assert.Equal(t, http.StatusUnauthorized, request("/admin", ""))
	assert.Equal(t, http.StatusForbidden, request("/admin", userToken))
	assert.Equal(t, http.StatusOK, request("/admin", adminToken))
}

func TestRateLimiter(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(1, 2, clock)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	clock.Advance(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled")
	assert.False(t, rl.Allow("10.0.0.1"))

	clock.Advance(limiterIdleTTL)
	rl.Allow("10.0.0.3")
	rl.mu.Lock()
	_, kept := rl.clients["10.0.0.2"]
	rl.mu.Unlock()
	assert.False(t, kept, "idle clients are evicted")
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1, clockwork.NewFakeClock())
	r := gin.New()
	r.POST("/vote", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	first := serve(r, httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := serve(r, httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
