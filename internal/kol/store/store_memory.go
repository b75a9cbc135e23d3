// Package store holds the loaded KOL dataset.
//
// The dataset is built once at startup and never written afterwards, so the
// store carries no locks: every read observes the same snapshot.
package store

import (
	"context"
	"slices"

	"kolanalytics/internal/kol/models"
	"kolanalytics/pkg/platform/sentinel"
)

// InMemory is an immutable, ordered KOL snapshot.
type InMemory struct {
	records []models.KOL
}

// NewInMemory takes a private copy of records. Load order is preserved and is
// the default ordering for every read.
func NewInMemory(records []models.KOL) *InMemory {
	return &InMemory{records: slices.Clone(records)}
}

// All returns the records in load order. The returned slice is a copy, so
// callers may reorder it freely. An empty store yields an empty, non-nil slice.
func (s *InMemory) All(_ context.Context) []models.KOL {
	return append(make([]models.KOL, 0, len(s.records)), s.records...)
}

// FindByID scans for the first record with the given id.
func (s *InMemory) FindByID(_ context.Context, id string) (*models.KOL, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			kol := s.records[i]
			return &kol, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Len reports the number of loaded records.
func (s *InMemory) Len() int {
	return len(s.records)
}
