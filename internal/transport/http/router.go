package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kolanalytics/internal/platform/metrics"
	"kolanalytics/internal/platform/middleware"
	"kolanalytics/internal/ratelimit"
	"kolanalytics/pkg/platform/httputil"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config carries everything the router needs from main.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	CORSOrigins    []string
	RequestTimeout time.Duration
	// RateLimit throttles module routes. Nil leaves them unthrottled.
	RateLimit      *ratelimit.Middleware
	ServiceName    string
	Version        string
	// Records reports the dataset size for the health endpoint.
	Records func() int
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Records int    `json:"records"`
}

type infoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
	Metrics string `json:"metrics"`
}

// NewRouter wires the shared middleware chain, the operational endpoints and
// every module handler.
func NewRouter(cfg Config, modules ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "healthy", Service: cfg.ServiceName, Version: cfg.Version}
		if cfg.Records != nil {
			resp.Records = cfg.Records()
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, infoResponse{
			Message: cfg.ServiceName,
			Version: cfg.Version,
			Health:  "/health",
			Metrics: "/metrics",
		})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.RateLimit)
		}
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}
