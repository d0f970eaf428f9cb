package postgres

import (
	"time"

	"library-catalog-service/internal/domain"

	"github.com/lib/pq"
)

// ResourceModel is the GORM model for the resources table.
type ResourceModel struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderID string `gorm:"type:varchar(50);not null;index:idx_provider_external,unique"`
	ExternalID string `gorm:"type:varchar(100);not null;index:idx_provider_external,unique"`

	// Descriptive metadata
	Title        string         `gorm:"type:varchar(500);not null"`
	Type         string         `gorm:"type:varchar(20);not null;index"`
	Author       string         `gorm:"type:varchar(255)"`
	Description  string         `gorm:"type:text"`
	Subject      string         `gorm:"type:varchar(255)"`
	Year         int            `gorm:"default:0"`
	Language     string         `gorm:"type:varchar(50)"`
	DocumentType string         `gorm:"type:varchar(50)"`
	CountryCode  string         `gorm:"type:varchar(5)"`
	Tags         pq.StringArray `gorm:"type:text[]"`

	// Type specific
	Duration  string `gorm:"type:varchar(20)"`
	Pages     int    `gorm:"default:0"`
	Thumbnail string `gorm:"type:text"`
	URL       string `gorm:"column:url;type:text"`

	// Timestamps
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ResourceModel.
func (ResourceModel) TableName() string {
	return "resources"
}

// upsertColumns are overwritten when a provider re-delivers a resource.
var upsertColumns = []string{
	"title", "type", "author", "description", "subject", "year",
	"language", "document_type", "country_code", "tags",
	"duration", "pages", "thumbnail", "url", "updated_at",
}

// ToDomain converts ResourceModel to domain.SearchResult.
func (m *ResourceModel) ToDomain() *domain.SearchResult {
	return &domain.SearchResult{
		ID:           m.ID,
		ProviderID:   m.ProviderID,
		ExternalID:   m.ExternalID,
		Title:        m.Title,
		Type:         domain.ResourceType(m.Type),
		Author:       m.Author,
		Description:  m.Description,
		Subject:      m.Subject,
		Year:         m.Year,
		Language:     m.Language,
		DocumentType: m.DocumentType,
		CountryCode:  m.CountryCode,
		Tags:         m.Tags,
		Duration:     m.Duration,
		Pages:        m.Pages,
		Thumbnail:    m.Thumbnail,
		URL:          m.URL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain creates a ResourceModel from domain.SearchResult.
func FromDomain(r *domain.SearchResult) *ResourceModel {
	return &ResourceModel{
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
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromDomainSlice converts a slice of domain.SearchResult to ResourceModels.
func FromDomainSlice(resources []*domain.SearchResult) []*ResourceModel {
	models := make([]*ResourceModel, len(resources))
	for i, r := range resources {
		models[i] = FromDomain(r)
	}

	return models
}
