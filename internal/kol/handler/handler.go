package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kolanalytics/internal/kol/models"
	"kolanalytics/internal/kol/query"
	"kolanalytics/internal/platform/middleware"
	dErrors "kolanalytics/pkg/domain-errors"
	"kolanalytics/pkg/platform/httputil"
)

// Service defines the KOL operations the HTTP layer may call.
type Service interface {
	ListAll(ctx context.Context) []models.KOL
	GetByID(ctx context.Context, id string) (*models.KOL, error)
	List(ctx context.Context, p query.Params) ([]models.KOL, error)
	Stats(ctx context.Context) models.Stats
}

// Handler serves the /api/kols endpoints.
type Handler struct {
	logger      *slog.Logger
	kols        Service
	maxPageSize int
}

type Option func(h *Handler)

// WithMaxPageSize rejects limit values above n. Zero disables the cap.
func WithMaxPageSize(n int) Option {
	return func(h *Handler) {
		h.maxPageSize = n
	}
}

// New creates a new KOL Handler.
func New(kols Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{logger: logger, kols: kols}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the KOL routes under /api/kols.
func (h *Handler) Register(r chi.Router) {
	kolRouter := chi.NewRouter()
	kolRouter.Use(middleware.ContentTypeJSON)
	kolRouter.Get("/", h.handleList)
	kolRouter.Get("/stats", h.handleStats)
	kolRouter.Get("/{id}", h.handleGet)

	r.Mount("/api/kols", kolRouter)
}

// handleList returns every KOL when no query parameters are given, otherwise
// the filtered, sorted and paginated subset.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	values := r.URL.Query()
	if len(values) == 0 {
		httputil.WriteJSON(w, http.StatusOK, h.kols.ListAll(ctx))
		return
	}

	params, err := parseListParams(values, h.maxPageSize)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid kol list request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	records, err := h.kols.List(ctx, params)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "invalid kol list request",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to list kols",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to retrieve KOLs"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.kols.Stats(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	kol, err := h.kols.GetByID(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get kol",
			"request_id", middleware.GetRequestID(ctx),
			"kol_id", id,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to retrieve KOL"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, kol)
}
