// Package xmlfeed implements the XML book feed client.
package xmlfeed

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/provider"
)

// DefaultEndpoint is the feed path used when none is configured.
const DefaultEndpoint = "/feed"

// Client implements domain.Provider for an XML feed.
type Client struct {
	name         string
	endpoint     string
	resourceType domain.ResourceType
	client       *resty.Client
	cb           *gobreaker.CircuitBreaker[*resty.Response]
	logger       *zap.Logger
}

// New creates a new XML feed client.
func New(cfg provider.ClientConfig, resourceType domain.ResourceType, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		name:         cfg.Name,
		endpoint:     endpoint,
		resourceType: resourceType,
		client:       provider.NewRestyClient(cfg),
		cb:           provider.NewCircuitBreaker[*resty.Response](cfg.Name, cfg.CB, logger),
		logger:       logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Fetch retrieves the whole feed in one request.
func (c *Client) Fetch(ctx context.Context) ([]*domain.SearchResult, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/xml").
			Get(c.endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("%s returned status %d", c.name, r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("feed fetch failed",
			zap.String("provider", c.name),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("fetching from %s: %w", c.name, err)
	}

	var feed Feed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("parsing %s XML: %w", c.name, err)
	}

	resources := make([]*domain.SearchResult, 0, len(feed.Items.Items))
	for i := range feed.Items.Items {
		item := &feed.Items.Items[i]
		if item.ID == "" {
			c.logger.Debug("skipping feed item without id", zap.String("provider", c.name))
			continue
		}
		resources = append(resources, item.ToDomain(c.name, c.resourceType))
	}

	c.logger.Info("feed fetch completed",
		zap.String("provider", c.name),
		zap.Int("count", len(resources)),
	)

	return resources, nil
}

// HealthCheck verifies the provider is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
