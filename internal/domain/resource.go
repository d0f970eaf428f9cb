// Package domain contains the catalog entities and the search pipeline
// (normalization, filtering, sorting, facets).
// This package has no infrastructure dependencies.
package domain

import (
	"strconv"
	"time"
)

// ResourceType represents the kind of library resource.
type ResourceType string

const (
	ResourceTypeVideo   ResourceType = "video"
	ResourceTypeTitle   ResourceType = "titulo" // books and articles
	ResourceTypePodcast ResourceType = "podcast"
)

// ResourceTypeAll is the filter sentinel meaning "any type".
const ResourceTypeAll = "all"

// ResourceTypes lists the known resource types in catalog display order.
var ResourceTypes = []ResourceType{ResourceTypeVideo, ResourceTypeTitle, ResourceTypePodcast}

// SearchResult is a single catalog resource as returned by a search.
// Values are treated as immutable once fetched.
type SearchResult struct {
	// Identifiers
	ID         string `json:"id"`          // Internal UUID
	ProviderID string `json:"provider_id"` // e.g., "videos", "books"
	ExternalID string `json:"external_id"` // ID from the content API (unique per provider)

	// Descriptive metadata
	Title        string       `json:"title"`
	Type         ResourceType `json:"type"`
	Author       string       `json:"author"`
	Description  string       `json:"description"`
	Subject      string       `json:"subject"`
	Year         int          `json:"year"`
	Language     string       `json:"language,omitempty"`
	DocumentType string       `json:"document_type,omitempty"`
	CountryCode  string       `json:"country_code,omitempty"`
	Tags         []string     `json:"tags,omitempty"`

	// Type specific
	Duration  string `json:"duration,omitempty"` // Video/podcast: "15:30", "1:02:03", "5m30s"
	Pages     int    `json:"pages,omitempty"`    // Titulo: page count
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url,omitempty"` // PDF, video or embed link

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVideo returns true if the resource is a video.
func (r *SearchResult) IsVideo() bool {
	return r.Type == ResourceTypeVideo
}

// IsTitle returns true if the resource is a book or article.
func (r *SearchResult) IsTitle() bool {
	return r.Type == ResourceTypeTitle
}

// IsPodcast returns true if the resource is a podcast episode.
func (r *SearchResult) IsPodcast() bool {
	return r.Type == ResourceTypePodcast
}

// YearString returns the publication year in decimal form, or "" when unknown.
func (r *SearchResult) YearString() string {
	if r.Year <= 0 {
		return ""
	}
	return strconv.Itoa(r.Year)
}

// DurationMinutes returns the parsed duration in minutes.
// ok is false when the resource has no parseable duration.
func (r *SearchResult) DurationMinutes() (float64, bool) {
	return ParseDurationMinutes(r.Duration)
}
