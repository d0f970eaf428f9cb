package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
)

// ErrProviderNotFound is returned when syncing an unknown provider.
var ErrProviderNotFound = errors.New("provider not found")

// SyncService handles resource ingestion from content providers.
type SyncService struct {
	repo      domain.ResourceRepository
	providers []domain.Provider
	catalog   *Catalog
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService. catalog may be nil, in which case
// no reload follows a sync.
func NewSyncService(repo domain.ResourceRepository, providers []domain.Provider, catalog *Catalog, logger *zap.Logger) *SyncService {
	return &SyncService{
		repo:      repo,
		providers: providers,
		catalog:   catalog,
		logger:    logger,
	}
}

// SyncResult holds the result of a sync operation.
type SyncResult struct {
	Provider string
	Count    int
	Duration time.Duration
	Error    error
}

// SyncAll synchronizes resources from all providers concurrently and reloads
// the catalog when at least one provider succeeded. Partial failures are allowed.
func (s *SyncService) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, len(s.providers))
	var wg sync.WaitGroup

	s.logger.Info("starting sync from all providers",
		zap.Int("provider_count", len(s.providers)),
	)

	for i, provider := range s.providers {
		wg.Add(1)
		go func(idx int, p domain.Provider) {
			defer wg.Done()
			results[idx] = s.syncProvider(ctx, p)
		}(i, provider)
	}

	wg.Wait()

	totalSynced := 0
	totalErrors := 0
	for _, r := range results {
		if r.Error != nil {
			totalErrors++
		} else {
			totalSynced += r.Count
		}
	}

	s.logger.Info("sync completed",
		zap.Int("total_synced", totalSynced),
		zap.Int("providers_failed", totalErrors),
	)

	if totalErrors < len(results) {
		s.reload(ctx)
	}

	return results
}

// syncProvider fetches and upserts resources from a single provider.
func (s *SyncService) syncProvider(ctx context.Context, provider domain.Provider) SyncResult {
	start := time.Now()
	result := SyncResult{
		Provider: provider.Name(),
	}

	s.logger.Debug("syncing provider", zap.String("provider", provider.Name()))

	resources, err := provider.Fetch(ctx)
	if err != nil {
		result.Error = fmt.Errorf("fetch %s: %w", provider.Name(), err)
		result.Duration = time.Since(start)
		s.logger.Warn("provider fetch failed",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return result
	}

	if len(resources) > 0 {
		if err := s.repo.BulkUpsert(ctx, resources); err != nil {
			result.Error = fmt.Errorf("upsert %s: %w", provider.Name(), err)
			result.Duration = time.Since(start)
			s.logger.Error("bulk upsert failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			return result
		}
	}

	result.Count = len(resources)
	result.Duration = time.Since(start)

	s.logger.Info("provider sync completed",
		zap.String("provider", provider.Name()),
		zap.Int("count", result.Count),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// SyncProvider synchronizes resources from a specific provider.
func (s *SyncService) SyncProvider(ctx context.Context, providerName string) (*SyncResult, error) {
	for _, p := range s.providers {
		if p.Name() == providerName {
			result := s.syncProvider(ctx, p)
			if result.Error == nil {
				s.reload(ctx)
			}
			return &result, result.Error
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
}

// GetProviderNames returns the names of all registered providers.
func (s *SyncService) GetProviderNames() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}

// HealthCheck reports the reachability of every provider, keyed by name.
func (s *SyncService) HealthCheck(ctx context.Context) map[string]error {
	out := make(map[string]error, len(s.providers))
	for _, p := range s.providers {
		out[p.Name()] = p.HealthCheck(ctx)
	}
	return out
}

func (s *SyncService) reload(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if _, err := s.catalog.Reload(ctx); err != nil {
		s.logger.Error("catalog reload after sync failed", zap.Error(err))
	}
}
