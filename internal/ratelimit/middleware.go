package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"kolanalytics/internal/platform/metrics"
	dErrors "kolanalytics/pkg/domain-errors"
	"kolanalytics/pkg/platform/httputil"
	"kolanalytics/pkg/requestcontext"
)

type Middleware struct {
	limiter  *Limiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns the middleware into a passthrough.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(pm *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = pm
	}
}

func New(limiter *Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.limiter == nil {
		m.disabled = true
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit rejects requests with 429 once the client's bucket is empty.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m.disabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		result := m.limiter.Allow(ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			m.logger.WarnContext(r.Context(), "rate limit exceeded",
				"request_id", requestcontext.RequestID(r.Context()),
				"client_ip", ip,
				"retry_after_s", retryAfter,
			)
			if m.metrics != nil {
				m.metrics.IncrementRateLimited()
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimit, "too many requests, retry later"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
