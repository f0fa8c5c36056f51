package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	r := newTestEngine(t)
	r.POST("/login/", NewRateLimiter(1, 2).Limit(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))

	// Each client has its own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestGetLimiterReusesBucket(t *testing.T) {
	rl := NewRateLimiter(10, 5)
	assert.Same(t, rl.GetLimiter("a"), rl.GetLimiter("a"))
	assert.NotSame(t, rl.GetLimiter("a"), rl.GetLimiter("b"))
}
