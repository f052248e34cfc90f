package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"certbot/internal/adapters/ratelimit"
	"certbot/internal/metrics"
)

type fakeLimiter struct {
	result ratelimit.Result
	err    error
	keys   []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ratelimit.Result, error) {
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *fakeLimiter
		wantStatus int
		wantNext   bool
		wantRetry  string
	}{
		{"allowed", &fakeLimiter{result: ratelimit.Result{Allowed: true, Limit: 100, Remaining: 99}}, http.StatusOK, true, ""},
		{"rejected", &fakeLimiter{result: ratelimit.Result{Allowed: false, Limit: 100, RetryAfter: 1500 * time.Millisecond}}, http.StatusTooManyRequests, false, "2"},
		{"limiter down fails open", &fakeLimiter{err: errors.New("redis down")}, http.StatusOK, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			var called bool
			handler := RateLimit(tt.limiter, m, discardLogger())(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
			req.RemoteAddr = "10.0.0.7:5555"
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, called)
			assert.Equal(t, tt.wantRetry, rr.Header().Get("Retry-After"))
			assert.Equal(t, []string{"10.0.0.7"}, tt.limiter.keys)
			if !tt.wantNext {
				assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ClientIP(req))
}
