// Package loader reads the KOL dataset from a file.
//
// A Loader is chosen once from configuration. JSON and XLSX sources both
// decode into the same candidate shape and pass the same schema validation,
// so a record that loads from one format loads identically from the other.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"kolanalytics/internal/kol/models"
	"kolanalytics/pkg/platform/sentinel"
)

// Loader produces the full ordered record sequence. Any error is fatal: a
// partially loaded dataset is never returned.
type Loader interface {
	Load(ctx context.Context) ([]models.KOL, error)
}

// Format selects the decoder.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts auto, json or xlsx (case-insensitive). Empty means auto.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown data format %q: %w", raw, sentinel.ErrUnsupported)
}

type options struct {
	maxRecords int
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*options)

// WithMaxRecords keeps only the first n records. Zero means unlimited.
func WithMaxRecords(n int) Option {
	return func(o *options) {
		o.maxRecords = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New returns the loader for path. FormatAuto picks by file extension.
func New(path string, format Format, opts ...Option) (Loader, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxRecords < 0 {
		return nil, fmt.Errorf("max records must be >= 0, got %d", o.maxRecords)
	}

	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = FormatJSON
		case ".xlsx", ".xlsm":
			format = FormatXLSX
		default:
			return nil, fmt.Errorf("cannot infer data format from %q: %w", path, sentinel.ErrUnsupported)
		}
	}

	switch format {
	case FormatJSON:
		return &JSONLoader{path: path, opts: o}, nil
	case FormatXLSX:
		return &ExcelLoader{path: path, opts: o}, nil
	}
	return nil, fmt.Errorf("unknown data format %q: %w", format, sentinel.ErrUnsupported)
}

// candidate is a decoded record before schema validation. Pointers tell an
// absent field from an empty one.
type candidate struct {
	ID                *string  `validate:"required"`
	Name              *string  `validate:"required"`
	Affiliation       *string  `validate:"required"`
	Country           *string  `validate:"required"`
	City              *string
	ExpertiseArea     *string  `validate:"required"`
	PublicationsCount *float64 `validate:"omitempty,gte=0"`
	HIndex            *float64 `validate:"omitempty,gte=0"`
	Citations         *float64 `validate:"omitempty,gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// build validates every candidate and converts them in order.
func build(candidates []candidate, o options) ([]models.KOL, error) {
	if o.maxRecords > 0 && len(candidates) > o.maxRecords {
		candidates = candidates[:o.maxRecords]
	}

	out := make([]models.KOL, 0, len(candidates))
	for i, c := range candidates {
		kol, err := c.toKOL()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, kol)
	}
	return out, nil
}

func (c candidate) toKOL() (models.KOL, error) {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return models.KOL{}, fmt.Errorf("field %s failed %q validation: %w", fe.Field(), fe.Tag(), sentinel.ErrInvalidFormat)
		}
		return models.KOL{}, err
	}

	pubs, err := toInt("publications count", c.PublicationsCount)
	if err != nil {
		return models.KOL{}, err
	}
	hIndex, err := toInt("h-index", c.HIndex)
	if err != nil {
		return models.KOL{}, err
	}
	citations, err := toInt("citations", c.Citations)
	if err != nil {
		return models.KOL{}, err
	}

	return models.KOL{
		ID:                *c.ID,
		Name:              *c.Name,
		Affiliation:       *c.Affiliation,
		Country:           *c.Country,
		City:              c.City,
		ExpertiseArea:     *c.ExpertiseArea,
		PublicationsCount: pubs,
		HIndex:            hIndex,
		Citations:         citations,
	}, nil
}

func toInt(field string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return nil, fmt.Errorf("%s %v is not a valid count: %w", field, *v, sentinel.ErrInvalidFormat)
	}
	n := int(*v)
	return &n, nil
}

func openCheck(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("data file not found: %s: %w", path, sentinel.ErrNotFound)
		}
		return fmt.Errorf("stat data file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("data file %s is a directory: %w", path, sentinel.ErrInvalidFormat)
	}
	return nil
}
