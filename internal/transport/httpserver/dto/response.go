package dto

import (
	"time"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/domain"
)

// ResourceResponse represents a single catalog resource in the response.
type ResourceResponse struct {
	ID           string   `json:"id"`
	ProviderID   string   `json:"provider_id"`
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Author       string   `json:"author"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Year         int      `json:"year"`
	Language     string   `json:"language,omitempty"`
	DocumentType string   `json:"document_type,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	Duration  string `json:"duration,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromDomainResource converts domain.SearchResult to ResourceResponse.
func FromDomainResource(r *domain.SearchResult) ResourceResponse {
	return ResourceResponse{
		ID:           r.ID,
		ProviderID:   r.ProviderID,
		ExternalID:   r.ExternalID,
		Title:        r.Title,
		Type:         string(r.Type),
		Author:       r.Author,
		Description:  r.Description,
		Subject:      r.Subject,
		Year:         r.Year,
		Language:     r.Language,
		DocumentType: r.DocumentType,
		CountryCode:  r.CountryCode,
		Tags:         r.Tags,
		Duration:     r.Duration,
		Pages:        r.Pages,
		Thumbnail:    r.Thumbnail,
		URL:          r.URL,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

// SearchResponse is the search envelope. Error is set only when Success is
// false.
type SearchResponse struct {
	Success    bool               `json:"success"`
	Results    []ResourceResponse `json:"results"`
	Pagination domain.Pagination  `json:"pagination"`
	SearchInfo domain.SearchInfo  `json:"search_info"`
	Error      string             `json:"error,omitempty"`
}

// FromSearchResponse converts a completed search to SearchResponse.
func FromSearchResponse(resp *domain.SearchResponse) SearchResponse {
	results := make([]ResourceResponse, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = FromDomainResource(r)
	}

	return SearchResponse{
		Success:    true,
		Results:    results,
		Pagination: resp.Pagination,
		SearchInfo: resp.SearchInfo,
	}
}

// FacetsResponse wraps the facet set of a search.
type FacetsResponse struct {
	Success bool            `json:"success"`
	Facets  domain.FacetSet `json:"facets"`
}

// SyncResultResponse represents the response for a sync operation.
type SyncResultResponse struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// SyncResponse represents the response for sync all operation.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds summary of sync operation.
type SyncSummary struct {
	TotalSynced   int `json:"total_synced"`
	ProvidersOK   int `json:"providers_ok"`
	ProvidersFail int `json:"providers_fail"`
}

// FromSyncResult converts one service.SyncResult.
func FromSyncResult(r service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		Provider: r.Provider,
		Count:    r.Count,
		Duration: r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}
	return resp
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.ProvidersFail++
		} else {
			resp.Summary.TotalSynced += r.Count
			resp.Summary.ProvidersOK++
		}
		resp.Results[i] = FromSyncResult(r)
	}

	return resp
}

// ProviderStatus is a provider name and its reachability.
type ProviderStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// FromHealth converts provider health checks, ordered as names.
func FromHealth(names []string, health map[string]error) []ProviderStatus {
	out := make([]ProviderStatus, len(names))
	for i, name := range names {
		out[i] = ProviderStatus{Name: name, Healthy: true}
		if err := health[name]; err != nil {
			out[i].Healthy = false
			out[i].Error = err.Error()
		}
	}
	return out
}

// HistoryResponse lists the recent searches of a session.
type HistoryResponse struct {
	SessionID string                 `json:"session_id"`
	Entries   []service.HistoryEntry `json:"entries"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMissingID        = "MISSING_ID"
	CodeMissingSession   = "MISSING_SESSION"
	CodeProviderNotFound = "PROVIDER_NOT_FOUND"
	CodeSyncFailed       = "SYNC_FAILED"
	CodeSyncInProgress   = "SYNC_IN_PROGRESS"
	CodeCanceled         = "CANCELED"
	CodePanic            = "PANIC"
	CodeUnhandled        = "UNHANDLED_ERROR"
)
