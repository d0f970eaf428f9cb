package domain

import (
	"context"
	"time"
)

// ResourceRepository defines the persistence operations for catalog resources.
// Implementations: internal/infra/postgres/repository.go
type ResourceRepository interface {
	// ListAll returns every resource in the catalog.
	ListAll(ctx context.Context) ([]*SearchResult, error)

	// GetByID retrieves a single resource by its internal ID.
	// Returns nil, nil when not found.
	GetByID(ctx context.Context, id string) (*SearchResult, error)

	// BulkUpsert creates or updates resources keyed by provider + external ID.
	BulkUpsert(ctx context.Context, resources []*SearchResult) error

	// Delete removes a resource by its internal ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of resources, optionally restricted to a type.
	Count(ctx context.Context, resourceType ResourceType) (int64, error)
}

// Provider defines an external content API that feeds the catalog.
// Implementations: internal/infra/provider/jsonfeed/, internal/infra/provider/xmlfeed/
type Provider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// Fetch retrieves all available resources, walking pagination if needed.
	Fetch(ctx context.Context) ([]*SearchResult, error)

	// HealthCheck verifies the provider is accessible.
	HealthCheck(ctx context.Context) error
}

// Searcher runs a catalog search. The service layer implements it in-process
// and internal/infra/searchapi implements it over HTTP.
type Searcher interface {
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
}

// KVStore is a storage-agnostic key-value store for small per-client state
// such as search history.
// Implementations: internal/infra/redis/store.go
type KVStore interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes every value owned by this store.
	Clear(ctx context.Context) error
}
