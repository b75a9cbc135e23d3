package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kolanalytics/internal/kol/metrics"
	"kolanalytics/internal/kol/models"
	"kolanalytics/internal/kol/query"
	"kolanalytics/internal/kol/stats"
	dErrors "kolanalytics/pkg/domain-errors"
	"kolanalytics/pkg/platform/sentinel"
	"kolanalytics/pkg/requestcontext"
)

const tracerName = "kolanalytics/internal/kol/service"

// Store is the read-only dataset the service queries.
type Store interface {
	All(ctx context.Context) []models.KOL
	FindByID(ctx context.Context, id string) (*models.KOL, error)
	Len() int
}

// Service is the access facade over the KOL dataset. It holds no mutable
// state, so one instance serves all requests concurrently.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service over store.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("kol store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.SetRecordsLoaded(store.Len())
	}
	return s, nil
}

// Count reports the dataset size.
func (s *Service) Count() int {
	return s.store.Len()
}

// ListAll returns every record in load order.
func (s *Service) ListAll(ctx context.Context) []models.KOL {
	ctx, span := s.tracer.Start(ctx, "kol.ListAll")
	defer span.End()
	start := time.Now()
	defer s.observeList(start)

	records := s.store.All(ctx)
	span.SetAttributes(attribute.Int("kol.results", len(records)))
	return records
}

// GetByID returns the record with id, or a CodeNotFound error.
func (s *Service) GetByID(ctx context.Context, id string) (*models.KOL, error) {
	ctx, span := s.tracer.Start(ctx, "kol.GetByID", trace.WithAttributes(attribute.String("kol.id", id)))
	defer span.End()
	start := time.Now()
	defer s.observeGet(start)

	kol, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "KOL with id '"+id+"' not found")
		}
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "failed to look up kol",
			"request_id", requestcontext.RequestID(ctx),
			"kol_id", id,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retrieve KOL")
	}
	return kol, nil
}

// List filters, sorts and paginates the dataset. Invalid parameters return a
// CodeValidation error and leave nothing else affected.
func (s *Service) List(ctx context.Context, p query.Params) ([]models.KOL, error) {
	ctx, span := s.tracer.Start(ctx, "kol.List", trace.WithAttributes(
		attribute.String("kol.country", p.Country),
		attribute.String("kol.expertise_area", p.ExpertiseArea),
		attribute.String("kol.sort_by", p.SortBy),
		attribute.String("kol.order", p.Order),
		attribute.Int("kol.offset", p.Offset),
	))
	defer span.End()
	start := time.Now()
	defer s.observeList(start)

	records, err := query.Apply(s.store.All(ctx), p)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			s.incrementRejected()
			s.logger.DebugContext(ctx, "rejected kol query",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query KOLs")
	}
	span.SetAttributes(attribute.Int("kol.results", len(records)))
	return records, nil
}

// Stats computes the statistics bundle from the full dataset.
func (s *Service) Stats(ctx context.Context) models.Stats {
	ctx, span := s.tracer.Start(ctx, "kol.Stats")
	defer span.End()
	start := time.Now()
	defer s.observeStats(start)

	result := stats.Compute(s.store.All(ctx))
	s.logger.DebugContext(ctx, "computed kol stats",
		"request_id", requestcontext.RequestID(ctx),
		"total_kols", result.TotalKOLs,
		"issues", len(result.DataQualityIssues),
	)
	return result
}

func (s *Service) observeList(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
}

func (s *Service) observeGet(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGet(start)
	}
}

func (s *Service) observeStats(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStats(start)
	}
}

func (s *Service) incrementRejected() {
	if s.metrics != nil {
		s.metrics.IncrementQueriesRejected()
	}
}
