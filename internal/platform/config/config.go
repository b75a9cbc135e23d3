package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"kolanalytics/internal/kol/loader"
	"kolanalytics/internal/platform/logger"
	pstrings "kolanalytics/pkg/platform/strings"
)

const (
	AppName    = "KOL Analytics API"
	AppVersion = "1.0.0"
)

// DefaultCORSOrigins allow the local frontend dev server.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Server captures process configuration.
type Server struct {
	Addr            string
	DataFile        string
	DataFormat      loader.Format
	MaxRecords      int
	MaxPageSize     int
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	// RateLimitRPS is the per-client request rate. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Server, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Server{
		Addr:        get("KOL_ADDR", ":8000"),
		DataFile:    get("KOL_DATA_FILE", "data/mockKolData.json"),
		CORSOrigins: DefaultCORSOrigins,
	}

	var err error
	if cfg.DataFormat, err = loader.ParseFormat(get("KOL_DATA_FORMAT", "auto")); err != nil {
		return Server{}, fmt.Errorf("KOL_DATA_FORMAT: %w", err)
	}
	if cfg.MaxRecords, err = nonNegativeInt("KOL_MAX_RECORDS", get("KOL_MAX_RECORDS", "0")); err != nil {
		return Server{}, err
	}
	if cfg.MaxPageSize, err = nonNegativeInt("KOL_MAX_PAGE_SIZE", get("KOL_MAX_PAGE_SIZE", "0")); err != nil {
		return Server{}, err
	}
	if raw, ok := lookup("KOL_CORS_ORIGINS"); ok {
		cfg.CORSOrigins = pstrings.SplitList(raw, ",")
	}
	if cfg.RequestTimeout, err = positiveDuration("KOL_REQUEST_TIMEOUT", get("KOL_REQUEST_TIMEOUT", "30s")); err != nil {
		return Server{}, err
	}
	if cfg.ShutdownTimeout, err = positiveDuration("KOL_SHUTDOWN_TIMEOUT", get("KOL_SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return Server{}, err
	}
	if cfg.RateLimitRPS, err = nonNegativeFloat("KOL_RATE_LIMIT_RPS", get("KOL_RATE_LIMIT_RPS", "0")); err != nil {
		return Server{}, err
	}
	if cfg.RateLimitBurst, err = nonNegativeInt("KOL_RATE_LIMIT_BURST", get("KOL_RATE_LIMIT_BURST", "20")); err != nil {
		return Server{}, err
	}
	if cfg.LogLevel, err = logger.ParseLevel(get("LOG_LEVEL", "info")); err != nil {
		return Server{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func nonNegativeInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}

func nonNegativeFloat(key, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, raw)
	}
	return f, nil
}

func positiveDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
