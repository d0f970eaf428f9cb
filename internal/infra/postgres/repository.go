package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-catalog-service/internal/domain"
)

// Repository implements domain.ResourceRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.ResourceRepository = (*Repository)(nil)

// ListAll returns every resource, newest first. Searching happens in memory
// over this snapshot.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.SearchResult, error) {
	var models []ResourceModel
	err := r.db.WithContext(ctx).
		Order("year DESC").
		Order("title ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	resources := make([]*domain.SearchResult, len(models))
	for i := range models {
		resources[i] = models[i].ToDomain()
	}

	return resources, nil
}

// GetByID retrieves a single resource by its internal ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.SearchResult, error) {
	var model ResourceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting resource by id: %w", err)
	}

	return model.ToDomain(), nil
}

// GetByProviderAndExternalID retrieves a resource by provider and external ID.
func (r *Repository) GetByProviderAndExternalID(ctx context.Context, providerID, externalID string) (*domain.SearchResult, error) {
	var model ResourceModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND external_id = ?", providerID, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting resource by provider and external id: %w", err)
	}

	return model.ToDomain(), nil
}

// Upsert creates or updates a single resource.
func (r *Repository) Upsert(ctx context.Context, resource *domain.SearchResult) error {
	model := FromDomain(resource)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(onProviderConflict()).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting resource: %w", err)
	}

	resource.ID = model.ID
	resource.CreatedAt = model.CreatedAt
	resource.UpdatedAt = model.UpdatedAt

	return nil
}

// BulkUpsert creates or updates multiple resources in batches, keyed by
// provider and external ID.
func (r *Repository) BulkUpsert(ctx context.Context, resources []*domain.SearchResult) error {
	if len(resources) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := FromDomainSlice(resources)
	for _, m := range models {
		m.UpdatedAt = now
	}

	err := r.db.WithContext(ctx).
		Clauses(onProviderConflict()).
		CreateInBatches(models, 100).Error
	if err != nil {
		return fmt.Errorf("bulk upserting resources: %w", err)
	}

	for i, m := range models {
		resources[i].ID = m.ID
		resources[i].CreatedAt = m.CreatedAt
		resources[i].UpdatedAt = m.UpdatedAt
	}

	return nil
}

// Delete removes a resource by its internal ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ResourceModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting resource: %w", result.Error)
	}

	return nil
}

// Count returns the number of resources of resourceType, or of every type when
// resourceType is empty.
func (r *Repository) Count(ctx context.Context, resourceType domain.ResourceType) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ResourceModel{})
	if resourceType != "" {
		query = query.Where("type = ?", string(resourceType))
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}

	return count, nil
}

func onProviderConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}
}
