package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	kolHandler "kolanalytics/internal/kol/handler"
	"kolanalytics/internal/kol/loader"
	kolMetrics "kolanalytics/internal/kol/metrics"
	kolService "kolanalytics/internal/kol/service"
	kolStore "kolanalytics/internal/kol/store"
	"kolanalytics/internal/platform/config"
	"kolanalytics/internal/platform/httpserver"
	"kolanalytics/internal/platform/logger"
	"kolanalytics/internal/platform/metrics"
	"kolanalytics/internal/ratelimit"
	httptransport "kolanalytics/internal/transport/http"
)

// main loads the dataset once, then serves it until SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(os.Stdout, cfg.LogLevel, config.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, registry, err := buildService(ctx, cfg, log)
	if err != nil {
		log.Error("failed to load kol dataset", "path", cfg.DataFile, "error", err)
		return err
	}

	httpMetrics := metrics.New(registry)
	var limiter *ratelimit.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        httpMetrics,
		RateLimit:      ratelimit.New(limiter, log, ratelimit.WithMetrics(httpMetrics)),
		Gatherer:       registry,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		ServiceName:    config.AppName,
		Version:        config.AppVersion,
		Records:        svc.Count,
	}, kolHandler.New(svc, log, kolHandler.WithMaxPageSize(cfg.MaxPageSize)))

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server",
			"addr", cfg.Addr,
			"version", config.AppVersion,
			"records", svc.Count(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildService loads the dataset and assembles the KOL service with its
// metrics registered on a fresh registry.
func buildService(ctx context.Context, cfg config.Server, log *slog.Logger) (*kolService.Service, *prometheus.Registry, error) {
	ld, err := loader.New(cfg.DataFile, cfg.DataFormat,
		loader.WithMaxRecords(cfg.MaxRecords),
		loader.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	records, err := ld.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := kolService.New(kolStore.NewInMemory(records),
		kolService.WithLogger(log),
		kolService.WithMetrics(kolMetrics.New(registry)),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, registry, nil
}
