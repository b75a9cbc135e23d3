// Package query filters, sorts and paginates KOL records.
//
// The pipeline is filter -> sort -> paginate. Every stage works on a fresh
// slice, so the caller's records are never reordered.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"kolanalytics/internal/kol/models"
	dErrors "kolanalytics/pkg/domain-errors"
)

// SortField names a sortable KOL attribute.
type SortField string

const (
	SortByPublications SortField = "publications_count"
	SortByCitations    SortField = "citations"
	SortByHIndex       SortField = "h_index"
	SortByName         SortField = "name"
)

// SortFields lists the accepted sort fields in display order.
var SortFields = []SortField{SortByPublications, SortByCitations, SortByHIndex, SortByName}

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Params are the optional list parameters. Zero values mean "not supplied";
// a nil Limit means no limit.
type Params struct {
	Country       string
	ExpertiseArea string
	Search        string
	SortBy        string
	Order         string
	Offset        int
	Limit         *int
}

// IsZero reports whether no parameter was supplied.
func (p Params) IsZero() bool {
	return p.Country == "" && p.ExpertiseArea == "" && p.Search == "" &&
		p.SortBy == "" && p.Order == "" && p.Offset == 0 && p.Limit == nil
}

// Validate rejects unknown sort fields, unknown orders and out-of-range
// pagination values.
func (p Params) Validate() error {
	if p.SortBy != "" {
		if _, err := parseSortField(p.SortBy); err != nil {
			return err
		}
	}
	if _, err := parseOrder(p.Order); err != nil {
		return err
	}
	if p.Offset < 0 {
		return dErrors.New(dErrors.CodeValidation, "offset must be >= 0")
	}
	if p.Limit != nil && *p.Limit < 1 {
		return dErrors.New(dErrors.CodeValidation, "limit must be >= 1")
	}
	return nil
}

// Apply runs the full pipeline.
func Apply(records []models.KOL, p Params) ([]models.KOL, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := Filter(records, p)
	if p.SortBy != "" {
		field, _ := parseSortField(p.SortBy)
		order, _ := parseOrder(p.Order)
		Sort(out, field, order)
	}
	return Paginate(out, p.Offset, p.Limit), nil
}

// Filter keeps records passing every supplied filter. Country and expertise
// area match exactly; search matches name or affiliation case-insensitively.
func Filter(records []models.KOL, p Params) []models.KOL {
	needle := strings.ToLower(p.Search)

	out := make([]models.KOL, 0, len(records))
	for _, kol := range records {
		if p.Country != "" && kol.Country != p.Country {
			continue
		}
		if p.ExpertiseArea != "" && kol.ExpertiseArea != p.ExpertiseArea {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(kol.Name), needle) &&
			!strings.Contains(strings.ToLower(kol.Affiliation), needle) {
			continue
		}
		out = append(out, kol)
	}
	return out
}

// Sort orders records in place. The sort is stable. Absent numeric values go
// last in both directions.
func Sort(records []models.KOL, field SortField, order Order) {
	desc := order == OrderDesc
	slices.SortStableFunc(records, func(a, b models.KOL) int {
		if field == SortByName {
			c := strings.Compare(a.Name, b.Name)
			if desc {
				return -c
			}
			return c
		}
		return compareNullable(numericField(a, field), numericField(b, field), desc)
	})
}

// Paginate skips offset records then keeps at most limit. The result is never
// nil, so it encodes as an empty JSON array.
func Paginate(records []models.KOL, offset int, limit *int) []models.KOL {
	if offset >= len(records) {
		return []models.KOL{}
	}
	end := len(records)
	if limit != nil && *limit < end-offset {
		end = offset + *limit
	}
	return records[offset:end]
}

func compareNullable(a, b *int, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := cmp.Compare(*a, *b)
	if desc {
		return -c
	}
	return c
}

func numericField(kol models.KOL, field SortField) *int {
	switch field {
	case SortByPublications:
		return kol.PublicationsCount
	case SortByCitations:
		return kol.Citations
	case SortByHIndex:
		return kol.HIndex
	}
	return nil
}

func parseSortField(raw string) (SortField, error) {
	field := SortField(raw)
	if slices.Contains(SortFields, field) {
		return field, nil
	}
	return "", dErrors.New(dErrors.CodeValidation,
		fmt.Sprintf("invalid sort_by %q: must be one of publications_count, citations, h_index, name", raw))
}

func parseOrder(raw string) (Order, error) {
	switch raw {
	case "", "asc", "ascending":
		return OrderAsc, nil
	case "desc", "descending":
		return OrderDesc, nil
	}
	return "", dErrors.New(dErrors.CodeValidation,
		fmt.Sprintf("invalid order %q: must be asc or desc", raw))
}
