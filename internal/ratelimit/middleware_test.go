package ratelimit

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"kolanalytics/internal/platform/metrics"
	"kolanalytics/pkg/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimitMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	l, _ := newTestLimiter(1, 1)
	h := New(l, discardLogger(), WithMetrics(m)).RateLimit(okHandler())

	first := testutil.Get(t, h, "/api/kols")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := testutil.Get(t, h, "/api/kols")
	testutil.AssertError(t, second, http.StatusTooManyRequests, "rate_limit_exceeded")
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RateLimited))
}

func TestRateLimitKeyedByClientAddress(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	h := New(l, discardLogger()).RateLimit(okHandler())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, addr)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5678"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestDisabledIsPassthrough(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	h := New(l, discardLogger(), WithDisabled(true)).RateLimit(okHandler())

	for range 3 {
		rr := testutil.Get(t, h, "/")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestNilLimiterDisables(t *testing.T) {
	h := New(nil, discardLogger()).RateLimit(okHandler())
	assert.Equal(t, http.StatusOK, testutil.Get(t, h, "/").Code)
}
