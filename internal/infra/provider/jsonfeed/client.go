// Package jsonfeed implements the paginated JSON content feed used for videos
// and podcasts.
package jsonfeed

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/provider"
)

const (
	DefaultPageSize = 50
	DefaultMaxPages = 100
)

// Client implements domain.Provider for a paginated JSON feed.
type Client struct {
	name         string
	endpoint     string
	resourceType domain.ResourceType
	pageSize     int
	maxPages     int
	client       *resty.Client
	cb           *gobreaker.CircuitBreaker[*Response]
	logger       *zap.Logger
}

// New creates a JSON feed client. resourceType is assigned to items that do
// not state a type.
func New(cfg provider.ClientConfig, resourceType domain.ResourceType, logger *zap.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &Client{
		name:         cfg.Name,
		endpoint:     cfg.Endpoint,
		resourceType: resourceType,
		pageSize:     pageSize,
		maxPages:     maxPages,
		client:       provider.NewRestyClient(cfg),
		cb:           provider.NewCircuitBreaker[*Response](cfg.Name, cfg.CB, logger),
		logger:       logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Fetch walks every page of the feed. Pages beyond the configured maximum are
// ignored with a warning.
func (c *Client) Fetch(ctx context.Context) ([]*domain.SearchResult, error) {
	var resources []*domain.SearchResult

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			c.logger.Warn("feed fetch failed",
				zap.String("provider", c.name),
				zap.Int("page", page),
				zap.String("state", c.cb.State().String()),
				zap.Error(err),
			)
			return nil, fmt.Errorf("fetching from %s: %w", c.name, err)
		}

		for i := range resp.Items {
			resources = append(resources, resp.Items[i].ToDomain(c.name, c.resourceType))
		}

		if page >= resp.Pagination.TotalPages || len(resp.Items) == 0 {
			break
		}
		if page >= c.maxPages {
			c.logger.Warn("feed page cap reached",
				zap.String("provider", c.name),
				zap.Int("max_pages", c.maxPages),
				zap.Int("total_pages", resp.Pagination.TotalPages),
			)
			break
		}
	}

	c.logger.Info("feed fetch completed",
		zap.String("provider", c.name),
		zap.Int("count", len(resources)),
	)

	return resources, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*Response, error) {
	return c.cb.Execute(func() (*Response, error) {
		var result Response
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"page":     strconv.Itoa(page),
				"per_page": strconv.Itoa(c.pageSize),
			}).
			SetResult(&result).
			Get(c.endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("%s returned status %d", c.name, r.StatusCode())
		}

		return &result, nil
	})
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
