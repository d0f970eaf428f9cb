package domain

import "strings"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams holds the input of a catalog search.
type SearchParams struct {
	// Text search
	Query string

	// Filters
	Filters SearchFilters

	// Sorting
	SortBy SortField

	// Pagination
	Page  int // 1-indexed
	Limit int // items per page
}

// Validate ensures params are within acceptable bounds. This is bound
// correction, not validation: invalid filter values are left alone and match
// nothing.
func (p *SearchParams) Validate() {
	p.Query = strings.TrimSpace(p.Query)
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortBy == "" {
		p.SortBy = SortRelevance
	}
}

// Offset calculates the slice offset for pagination.
func (p *SearchParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NextPage returns a copy of params pointing at the following page.
func (p SearchParams) NextPage() SearchParams {
	p.Page++
	return p
}

// Strategy returns the cache strategy of this search.
func (p *SearchParams) Strategy() Strategy {
	return DetectStrategy(p.Query, p.Filters)
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	TotalResults    int  `json:"total_results"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPagination computes pagination metadata for total results.
func NewPagination(total, page, limit int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}

	return Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalResults:    total,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// SearchInfo echoes how a search was interpreted.
type SearchInfo struct {
	Query    string    `json:"query"`
	Strategy Strategy  `json:"strategy"`
	SortBy   SortField `json:"sort_by"`
	Searched int       `json:"searched"` // catalog size the search ran over
}

// SearchResponse is one completed search: a page of results plus metadata.
type SearchResponse struct {
	Results    []*SearchResult `json:"results"`
	Pagination Pagination      `json:"pagination"`
	SearchInfo SearchInfo      `json:"search_info"`
}

// Paginate cuts the requested page out of sorted results.
func Paginate(sorted []*SearchResult, params SearchParams, info SearchInfo) *SearchResponse {
	params.Validate()

	start := params.Offset()
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + params.Limit
	if end > len(sorted) {
		end = len(sorted)
	}

	page := make([]*SearchResult, end-start)
	copy(page, sorted[start:end])

	return &SearchResponse{
		Results:    page,
		Pagination: NewPagination(len(sorted), params.Page, params.Limit),
		SearchInfo: info,
	}
}

// EmptyResponse is the response for a search without criteria.
func EmptyResponse(params SearchParams, searched int) *SearchResponse {
	params.Validate()

	return &SearchResponse{
		Results:    make([]*SearchResult, 0),
		Pagination: NewPagination(0, params.Page, params.Limit),
		SearchInfo: SearchInfo{
			Query:    params.Query,
			Strategy: params.Strategy(),
			SortBy:   params.SortBy,
			Searched: searched,
		},
	}
}
