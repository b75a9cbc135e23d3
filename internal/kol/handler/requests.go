package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"kolanalytics/internal/kol/query"
	dErrors "kolanalytics/pkg/domain-errors"
)

// parseListParams reads the list query string. Only the integer syntax of
// offset and limit and the page-size cap are checked here; the rest is
// validated by the query engine.
func parseListParams(values url.Values, maxPageSize int) (query.Params, error) {
	p := query.Params{
		Country:       values.Get("country"),
		ExpertiseArea: values.Get("expertise_area"),
		Search:        values.Get("search"),
		SortBy:        values.Get("sort_by"),
		Order:         strings.ToLower(values.Get("order")),
	}

	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Params{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("offset must be an integer, got %q", raw))
		}
		p.Offset = n
	}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Params{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("limit must be an integer, got %q", raw))
		}
		if maxPageSize > 0 && n > maxPageSize {
			return query.Params{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("limit must be <= %d", maxPageSize))
		}
		p.Limit = &n
	}

	return p, nil
}
