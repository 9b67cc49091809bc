package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowPerKey(t *testing.T) {
	k := New(0.001, 2)

	assert.True(t, k.Allow("a"))
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))
	assert.True(t, k.Allow("b"), "keys have independent buckets")
	assert.Equal(t, 2, k.Len())
}

func TestUnlimited(t *testing.T) {
	k := New(0, 0)
	for range 100 {
		require.True(t, k.Allow("x"))
	}
}

func TestWaitHonoursContext(t *testing.T) {
	k := New(0.001, 1)
	require.NoError(t, k.Wait(context.Background(), "host"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, k.Wait(ctx, "host"))
}

func TestSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k := New(1, 1)
	k.now = func() time.Time { return now }

	k.Allow("old")
	now = now.Add(11 * time.Minute)
	k.Allow("fresh")

	assert.Equal(t, 1, k.Sweep())
	assert.Equal(t, 1, k.Len())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(New(0.001, 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}
