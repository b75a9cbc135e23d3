package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kolanalytics/internal/platform/metrics"
	"kolanalytics/internal/platform/middleware"
	"kolanalytics/internal/ratelimit"
	"kolanalytics/pkg/testutil"
)

type panicModule struct{}

func (panicModule) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

type okModule struct{}

func (okModule) Register(r chi.Router) {
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testConfig(reg *prometheus.Registry) Config {
	return Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:     metrics.New(reg),
		Gatherer:    reg,
		CORSOrigins: []string{"http://localhost:5173"},
		ServiceName: "KOL Analytics API",
		Version:     "1.0.0",
		Records:     func() int { return 42 },
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testConfig(prometheus.NewRegistry()), panicModule{})
}

func TestHealth(t *testing.T) {
	rr := testutil.Get(t, newTestRouter(t), "/health")

	testutil.AssertJSON(t, rr, http.StatusOK)
	body := testutil.Decode[healthResponse](t, rr)
	assert.Equal(t, healthResponse{Status: "healthy", Service: "KOL Analytics API", Version: "1.0.0", Records: 42}, body)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRoot(t *testing.T) {
	rr := testutil.Get(t, newTestRouter(t), "/")

	testutil.AssertJSON(t, rr, http.StatusOK)
	body := testutil.Decode[infoResponse](t, rr)
	assert.Equal(t, "KOL Analytics API", body.Message)
	assert.Equal(t, "/health", body.Health)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	testutil.Get(t, router, "/health")

	rr := testutil.Get(t, router, "/metrics")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_request_duration_seconds")
}

func TestRecoveredPanicReturnsInternalError(t *testing.T) {
	rr := testutil.Get(t, newTestRouter(t), "/boom")

	resp := testutil.AssertError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.Empty(t, resp.ErrorDescription)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/kols", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.True(t, strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodGet))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitAppliesToModuleRoutesOnly(t *testing.T) {
	cfg := testConfig(prometheus.NewRegistry())
	cfg.RateLimit = ratelimit.New(ratelimit.NewLimiter(0.001, 1), cfg.Logger)
	router := NewRouter(cfg, okModule{})

	assert.Equal(t, http.StatusOK, testutil.Get(t, router, "/ok").Code)
	testutil.AssertError(t, testutil.Get(t, router, "/ok"), http.StatusTooManyRequests, "rate_limit_exceeded")

	for range 3 {
		assert.Equal(t, http.StatusOK, testutil.Get(t, router, "/health").Code)
	}
}
