package xmlfeed

import (
	"encoding/xml"
	"strings"

	"library-catalog-service/internal/domain"
)

// Feed represents the XML book feed.
type Feed struct {
	XMLName xml.Name `xml:"feed"`
	Items   Items    `xml:"items"`
	Meta    Meta     `xml:"meta"`
}

// Items wraps the list of items.
type Items struct {
	Items []Item `xml:"item"`
}

// Item represents a single book or article.
type Item struct {
	ID           string     `xml:"id"`
	Title        string     `xml:"title"`
	Type         string     `xml:"type"`
	Author       string     `xml:"author"`
	Description  string     `xml:"description"`
	Subject      string     `xml:"subject"`
	Year         int        `xml:"year"`
	Pages        int        `xml:"pages"`
	Language     string     `xml:"language"`
	DocumentType string     `xml:"document_type"`
	CountryCode  string     `xml:"country_code"`
	Thumbnail    string     `xml:"thumbnail"`
	URL          string     `xml:"url"`
	Categories   Categories `xml:"categories"`
}

// Categories wraps the list of categories.
type Categories struct {
	Category []string `xml:"category"`
}

// Meta holds feed totals.
type Meta struct {
	TotalCount int `xml:"total_count"`
}

// ToDomain converts Item to a catalog resource. Categories become tags.
func (i *Item) ToDomain(providerID string, fallback domain.ResourceType) *domain.SearchResult {
	t := domain.ResourceType(strings.ToLower(strings.TrimSpace(i.Type)))
	if t == "" {
		t = fallback
	}

	return &domain.SearchResult{
		ProviderID:   providerID,
		ExternalID:   strings.TrimSpace(i.ID),
		Title:        strings.TrimSpace(i.Title),
		Type:         t,
		Author:       strings.TrimSpace(i.Author),
		Description:  strings.TrimSpace(i.Description),
		Subject:      strings.TrimSpace(i.Subject),
		Year:         i.Year,
		Pages:        i.Pages,
		Language:     i.Language,
		DocumentType: i.DocumentType,
		CountryCode:  i.CountryCode,
		Thumbnail:    i.Thumbnail,
		URL:          i.URL,
		Tags:         i.Categories.Category,
	}
}
