package jsonfeed

import (
	"strings"

	"library-catalog-service/internal/domain"
)

// Response is one page of a JSON content feed.
type Response struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Item is a single video or podcast episode.
type Item struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Author       string   `json:"author"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Year         int      `json:"year"`
	Duration     string   `json:"duration"`
	Language     string   `json:"language"`
	DocumentType string   `json:"document_type"`
	CountryCode  string   `json:"country_code"`
	Thumbnail    string   `json:"thumbnail"`
	URL          string   `json:"url"`
	Tags         []string `json:"tags"`
}

// Pagination describes the page a response holds.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// ToDomain converts Item to a catalog resource. fallback is used when the
// item carries no type of its own.
func (i *Item) ToDomain(providerID string, fallback domain.ResourceType) *domain.SearchResult {
	t := domain.ResourceType(strings.ToLower(strings.TrimSpace(i.Type)))
	if t == "" {
		t = fallback
	}

	return &domain.SearchResult{
		ProviderID:   providerID,
		ExternalID:   i.ID,
		Title:        strings.TrimSpace(i.Title),
		Type:         t,
		Author:       i.Author,
		Description:  i.Description,
		Subject:      i.Subject,
		Year:         i.Year,
		Duration:     i.Duration,
		Language:     i.Language,
		DocumentType: i.DocumentType,
		CountryCode:  i.CountryCode,
		Thumbnail:    i.Thumbnail,
		URL:          i.URL,
		Tags:         i.Tags,
	}
}
