// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"

	"library-catalog-service/internal/domain"
)

// SearchRequest carries search criteria from a query string or a JSON body.
// Repeated query keys (type=video&type=podcast) fill the set-valued filters.
type SearchRequest struct {
	Query        string   `json:"q" query:"q" validate:"max=200"`
	Type         []string `json:"type" query:"type" validate:"omitempty,max=4,dive,resource_type"`
	Subject      []string `json:"subject" query:"subject" validate:"omitempty,max=50,dive,max=200"`
	Author       string   `json:"author" query:"author" validate:"max=200"`
	Year         string   `json:"year" query:"year" validate:"max=20"`
	Duration     string   `json:"duration" query:"duration" validate:"max=20"`
	Language     []string `json:"language" query:"language" validate:"omitempty,max=50,dive,max=50"`
	DocumentType []string `json:"document_type" query:"document_type" validate:"omitempty,max=50,dive,max=100"`
	SortBy       string   `json:"sort_by" query:"sort_by" validate:"sort_field"`
	Page         int      `json:"page" query:"page" validate:"omitempty,min=1"`
	Limit        int      `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
}

// ToSearchParams converts SearchRequest to domain.SearchParams. defaultLimit
// applies when the request sets no limit.
func (r *SearchRequest) ToSearchParams(defaultLimit int) domain.SearchParams {
	params := domain.SearchParams{
		Query: strings.TrimSpace(r.Query),
		Filters: domain.SearchFilters{
			ResourceType: lower(r.Type),
			Subject:      r.Subject,
			Author:       r.Author,
			Year:         r.Year,
			Duration:     r.Duration,
			Language:     r.Language,
			DocumentType: r.DocumentType,
		},
		SortBy: domain.ParseSortField(r.SortBy),
		Page:   r.Page,
		Limit:  r.Limit,
	}
	if params.Limit == 0 {
		params.Limit = defaultLimit
	}
	params.Validate()

	return params
}

// FacetsRequest is a SearchRequest plus a term narrowing the returned facets.
type FacetsRequest struct {
	SearchRequest
	FacetQuery string `json:"facet_q" query:"facet_q" validate:"max=100"`
}

func lower(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
