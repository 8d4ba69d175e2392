package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/storefront/pkg/storefront"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware("https://books.example.com"))
	router.GET("/v1/wishlist", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"configured origin", "https://books.example.com", "https://books.example.com"},
		{"default port stripped", "https://books.example.com:443", "https://books.example.com:443"},
		{"dev server", "http://localhost:5173", "http://localhost:5173"},
		{"unknown origin", "https://evil.example.net", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/wishlist", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), CurrentPathHeader)
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware())
	router.POST("/v1/cart", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCurrentPathMiddleware(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(CurrentPathMiddleware())
	router.GET("/v1/cart", func(c *gin.Context) {
		seen = storefront.CurrentPath(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req.Header.Set(CurrentPathHeader, "/checkout")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "/checkout", seen)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/cart", nil))
	assert.Empty(t, seen)
}

func TestLoginRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLoginRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "limits are per address")

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"), "window expired")
}

func TestLoginRateLimiter_Handle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.POST("/v1/session", NewLoginRateLimiter(ctx, 1, time.Minute).Handle(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/session", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/session", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")
}
