package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kolanalytics/internal/kol/models"
	"kolanalytics/pkg/platform/sentinel"
)

// JSONLoader reads a top-level JSON array of KOL objects. Keys may be camelCase
// (expertiseArea, publicationsCount, hIndex) or snake_case.
type JSONLoader struct {
	path string
	opts options
}

type jsonRecord struct {
	ID                     *string  `json:"id"`
	Name                   *string  `json:"name"`
	Affiliation            *string  `json:"affiliation"`
	Country                *string  `json:"country"`
	City                   *string  `json:"city"`
	ExpertiseArea          *string  `json:"expertiseArea"`
	ExpertiseAreaSnake     *string  `json:"expertise_area"`
	PublicationsCount      *float64 `json:"publicationsCount"`
	PublicationsCountSnake *float64 `json:"publications_count"`
	HIndex                 *float64 `json:"hIndex"`
	HIndexSnake            *float64 `json:"h_index"`
	Citations              *float64 `json:"citations"`
}

func (r jsonRecord) candidate() candidate {
	return candidate{
		ID:                r.ID,
		Name:              r.Name,
		Affiliation:       r.Affiliation,
		Country:           r.Country,
		City:              r.City,
		ExpertiseArea:     firstNonNil(r.ExpertiseArea, r.ExpertiseAreaSnake),
		PublicationsCount: firstNonNil(r.PublicationsCount, r.PublicationsCountSnake),
		HIndex:            firstNonNil(r.HIndex, r.HIndexSnake),
		Citations:         r.Citations,
	}
}

// Load implements Loader.
func (l *JSONLoader) Load(ctx context.Context) ([]models.KOL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := openCheck(l.path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", l.path, err)
	}

	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", l.path, err, sentinel.ErrInvalidFormat)
	}

	candidates := make([]candidate, len(raw))
	for i, r := range raw {
		candidates[i] = r.candidate()
	}

	records, err := build(candidates, l.opts)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", l.path, err)
	}
	l.opts.logger.InfoContext(ctx, "loaded kol dataset",
		"path", l.path,
		"format", string(FormatJSON),
		"records", len(records),
	)
	return records, nil
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
