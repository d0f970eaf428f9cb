// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
)

// Catalog holds an in-memory snapshot of every resource. Searches read the
// snapshot; Reload swaps it atomically after a sync.
type Catalog struct {
	repo   domain.ResourceRepository
	logger *zap.Logger

	snapshot   atomic.Pointer[catalogSnapshot]
	generation atomic.Uint64

	hooksMu sync.Mutex
	hooks   []func()
}

type catalogSnapshot struct {
	resources []*domain.SearchResult
	byID       map[string]*domain.SearchResult
	loadedAt   time.Time
	generation uint64
}

// NewCatalog creates an empty catalog backed by repo.
func NewCatalog(repo domain.ResourceRepository, logger *zap.Logger) *Catalog {
	c := &Catalog{
		repo:   repo,
		logger: logger,
	}
	c.snapshot.Store(&catalogSnapshot{byID: map[string]*domain.SearchResult{}})
	return c
}

// OnReload registers fn to run after every successful reload.
func (c *Catalog) OnReload(fn func()) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()

	c.hooks = append(c.hooks, fn)
}

// Reload replaces the snapshot with the repository contents.
// On failure the previous snapshot is kept.
func (c *Catalog) Reload(ctx context.Context) (int, error) {
	start := time.Now()

	resources, err := c.repo.ListAll(ctx)
	if err != nil {
		c.logger.Error("catalog reload failed", zap.Error(err))
		return 0, fmt.Errorf("failed to list resources: %w", err)
	}

	byID := make(map[string]*domain.SearchResult, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	c.snapshot.Store(&catalogSnapshot{
		resources:  resources,
		byID:       byID,
		loadedAt:   time.Now(),
		generation: c.generation.Add(1),
	})

	c.hooksMu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	c.logger.Info("catalog reloaded",
		zap.Int("resources", len(resources)),
		zap.Duration("duration", time.Since(start)),
	)

	return len(resources), nil
}

// All returns the current snapshot. Callers must not modify it.
func (c *Catalog) All() []*domain.SearchResult {
	return c.snapshot.Load().resources
}

// View returns the current snapshot together with its generation. The
// generation changes on every successful reload.
func (c *Catalog) View() ([]*domain.SearchResult, uint64) {
	snap := c.snapshot.Load()
	return snap.resources, snap.generation
}

// Generation returns the generation of the current snapshot, 0 before the
// first reload.
func (c *Catalog) Generation() uint64 {
	return c.snapshot.Load().generation
}

// Size returns the number of resources in the snapshot.
func (c *Catalog) Size() int {
	return len(c.snapshot.Load().resources)
}

// LoadedAt returns when the snapshot was built, zero before the first reload.
func (c *Catalog) LoadedAt() time.Time {
	return c.snapshot.Load().loadedAt
}

// Get returns a resource by ID from the snapshot, falling back to the
// repository for resources synced after the last reload.
// Returns nil, nil when not found.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.SearchResult, error) {
	if r, ok := c.snapshot.Load().byID[id]; ok {
		return r, nil
	}
	return c.repo.GetByID(ctx, id)
}
