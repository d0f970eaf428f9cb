package domain

import (
	"slices"
	"strings"
)

// SearchFilters holds the user-selected facet filters.
// Set-valued fields are order-insensitive.
type SearchFilters struct {
	ResourceType []string `json:"resource_type,omitempty"`
	Subject      []string `json:"subject,omitempty"`
	Author       string   `json:"author,omitempty"`
	Year         string   `json:"year,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Language     []string `json:"language,omitempty"`
	DocumentType []string `json:"document_type,omitempty"`
}

// HasTypeRestriction reports whether the resource type set restricts results.
// An empty set or one containing ResourceTypeAll does not.
func (f SearchFilters) HasTypeRestriction() bool {
	vals := nonEmpty(f.ResourceType)
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if strings.EqualFold(v, ResourceTypeAll) {
			return false
		}
	}
	return true
}

// HasNonTypeFilters reports whether any filter other than resource type is set.
func (f SearchFilters) HasNonTypeFilters() bool {
	return len(nonEmpty(f.Subject)) > 0 ||
		len(nonEmpty(f.Language)) > 0 ||
		len(nonEmpty(f.DocumentType)) > 0 ||
		strings.TrimSpace(f.Author) != "" ||
		strings.TrimSpace(f.Year) != "" ||
		strings.TrimSpace(f.Duration) != ""
}

// IsEmpty reports whether no filter restricts results.
func (f SearchFilters) IsEmpty() bool {
	return !f.HasTypeRestriction() && !f.HasNonTypeFilters()
}

// Canonical returns a copy with trimmed values and sorted, de-duplicated sets.
// Two filters selecting the same things have equal canonical forms.
func (f SearchFilters) Canonical() SearchFilters {
	return SearchFilters{
		ResourceType: canonicalSet(f.ResourceType),
		Subject:      canonicalSet(f.Subject),
		Author:       strings.TrimSpace(f.Author),
		Year:         strings.TrimSpace(f.Year),
		Duration:     strings.TrimSpace(f.Duration),
		Language:     canonicalSet(f.Language),
		DocumentType: canonicalSet(f.DocumentType),
	}
}

// HasActiveFilters reports whether a search has any criteria at all.
// No query and no filters means "no search": callers return an empty result
// set instead of the whole catalog.
func HasActiveFilters(query string, f SearchFilters) bool {
	return strings.TrimSpace(query) != "" || !f.IsEmpty()
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func canonicalSet(vals []string) []string {
	out := nonEmpty(vals)
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
