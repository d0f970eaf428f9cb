package searchcache

import (
	"encoding/json"
	"strings"

	"library-catalog-service/internal/domain"
)

type keyShape struct {
	Query   string               `json:"query"`
	Filters domain.SearchFilters `json:"filters"`
	SortBy  domain.SortField     `json:"sort_by"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
}

// BuildKey serializes params into a deterministic cache key.
// Params differing only in set order, surrounding whitespace or query case map
// to the same key.
func BuildKey(params domain.SearchParams) string {
	params.Validate()

	b, err := json.Marshal(keyShape{
		Query:   strings.ToLower(params.Query),
		Filters: params.Filters.Canonical(),
		SortBy:  params.SortBy,
		Page:    params.Page,
		Limit:   params.Limit,
	})
	if err != nil {
		// keyShape holds only strings, ints and string slices.
		panic("searchcache: marshal key: " + err.Error())
	}
	return string(b)
}
