package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPLimiter(rate.Limit(0.001), 2, time.Minute)

	calls := 0
	h := RateLimitMiddleware(newNoopLogger(), limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("10.0.0.1:1234"))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	limiter := NewIPLimiter(rate.Limit(0.001), 1, time.Minute)
	h := RateLimitMiddleware(newNoopLogger(), limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name         string
		remoteAddr   string
		expectedCode int
	}{
		{name: "первый клиент", remoteAddr: "10.0.0.1:1111", expectedCode: http.StatusOK},
		{name: "первый клиент с другого порта", remoteAddr: "10.0.0.1:2222", expectedCode: http.StatusTooManyRequests},
		{name: "второй клиент не страдает", remoteAddr: "10.0.0.2:1111", expectedCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, newRequest(tt.remoteAddr))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestRateLimitMiddleware_BehindRealIP(t *testing.T) {
	limiter := NewIPLimiter(rate.Limit(0.001), 1, time.Minute)
	h := middleware.RealIP(RateLimitMiddleware(newNoopLogger(), limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	send := func(realIP string) int {
		req := newRequest("192.168.0.1:80")
		req.Header.Set("X-Real-IP", realIP)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.5"))
	assert.Equal(t, http.StatusOK, send("203.0.113.6"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.5"))
}

func TestRateLimitMiddleware_Body(t *testing.T) {
	h := RateLimitMiddleware(newNoopLogger(), NewIPLimiter(0, 0, time.Minute))(http.NotFoundHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newRequest("10.0.0.1:1234"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"too many requests"}`, w.Body.String())
}

func TestIPLimiter_DropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPLimiter(rate.Limit(0.001), 1, time.Minute)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.Equal(t, 1, limiter.size())

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 1, limiter.size())

	assert.True(t, limiter.Allow("10.0.0.1"), "idle client starts with a fresh bucket")
}
