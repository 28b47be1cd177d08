package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoppos/internal/middleware"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, role, typ string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  "7d8f9b4e-4f36-4c1a-9b1e-1d1f0a3c2b5e",
		"username": "clerk",
		"role":     role,
		"typ":      typ,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

type fakePerms struct {
	allowed map[string]bool
	err     error
}

func (f fakePerms) HasAccess(_ context.Context, role, page string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return role == "admin" || f.allowed[role+page], nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Role)
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newEngine(middleware.JWTAuth(testSecret))

	w := do(r, signToken(t, "cashier", service.TokenAccess, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cashier", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "cashier", service.TokenRefresh, time.Hour)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, "cashier", service.TokenAccess, -time.Minute)).Code)
}

func TestRequireRole(t *testing.T) {
	r := newEngine(middleware.JWTAuth(testSecret), middleware.RequireRole("admin"))

	assert.Equal(t, http.StatusOK, do(r, signToken(t, "admin", service.TokenAccess, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, signToken(t, "manager", service.TokenAccess, time.Hour)).Code)
}

func TestRequirePage(t *testing.T) {
	perms := fakePerms{allowed: map[string]bool{"cashier/pos": true}}

	pos := newEngine(middleware.JWTAuth(testSecret), middleware.RequirePage(perms, "/pos"))
	assert.Equal(t, http.StatusOK, do(pos, signToken(t, "cashier", service.TokenAccess, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, do(pos, signToken(t, "viewer", service.TokenAccess, time.Hour)).Code)

	settings := newEngine(middleware.JWTAuth(testSecret), middleware.RequirePage(perms, "/settings"))
	assert.Equal(t, http.StatusForbidden, do(settings, signToken(t, "cashier", service.TokenAccess, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, do(settings, signToken(t, "admin", service.TokenAccess, time.Hour)).Code)

	broken := newEngine(middleware.JWTAuth(testSecret), middleware.RequirePage(fakePerms{err: errors.New("db down")}, "/pos"))
	assert.Equal(t, http.StatusInternalServerError, do(broken, signToken(t, "cashier", service.TokenAccess, time.Hour)).Code)

	unauthenticated := newEngine(middleware.RequirePage(perms, "/pos"))
	assert.Equal(t, http.StatusUnauthorized, do(unauthenticated, "").Code)
}

func TestRateLimiter(t *testing.T) {
	limit, err := middleware.LoginRateLimiter("2-M")
	require.NoError(t, err)
	r := newEngine(limit)

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)

	_, err = middleware.RateLimiter("lots")
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})

	w := do(r, "")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	r.GET("/x", func(*gin.Context) { panic("boom") })

	w := do(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS("http://localhost:5173, https://pos.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
