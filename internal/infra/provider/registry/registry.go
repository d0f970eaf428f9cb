// Package registry builds the configured content provider clients.
package registry

import (
	"go.uber.org/zap"

	"library-catalog-service/internal/config"
	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/provider"
	"library-catalog-service/internal/infra/provider/jsonfeed"
	"library-catalog-service/internal/infra/provider/xmlfeed"
)

// Provider identifiers. They become the provider_id of ingested resources.
const (
	Videos   = "videos"
	Books    = "books"
	Podcasts = "podcasts"
)

// NewProviders creates a client for every enabled provider. Providers with an
// empty base URL are skipped.
func NewProviders(cfg config.ProviderConfig, logger *zap.Logger) []domain.Provider {
	providers := make([]domain.Provider, 0, 3)

	if cfg.Videos.BaseURL != "" {
		providers = append(providers, jsonfeed.New(clientConfig(Videos, cfg.Videos), domain.ResourceTypeVideo, logger))
	}
	if cfg.Books.BaseURL != "" {
		providers = append(providers, xmlfeed.New(clientConfig(Books, cfg.Books), domain.ResourceTypeTitle, logger))
	}
	if cfg.Podcasts.BaseURL != "" {
		providers = append(providers, jsonfeed.New(clientConfig(Podcasts, cfg.Podcasts), domain.ResourceTypePodcast, logger))
	}

	if len(providers) == 0 {
		logger.Warn("no content providers configured")
	}

	return providers
}

func clientConfig(name string, ep config.ProviderEndpoint) provider.ClientConfig {
	return provider.ClientConfig{
		Name:     name,
		BaseURL:  ep.BaseURL,
		Endpoint: ep.Endpoint,
		Timeout:  ep.Timeout,
		PageSize: ep.PageSize,
		MaxPages: ep.MaxPages,
		Retry: provider.RetryConfig{
			MaxAttempts: ep.Retry.MaxAttempts,
			WaitTime:    ep.Retry.WaitTime,
			MaxWaitTime: ep.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}
