// Package searchapi is an HTTP client for the catalog search API. It backs
// the terminal client's search session.
package searchapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/provider"
)

const (
	searchPath  = "/api/v1/search"
	facetsPath  = "/api/v1/facets"
	historyPath = "/api/v1/history"

	requestIDHeader = "X-Request-ID"
	sessionHeader   = "X-Session-ID"
)

// ErrRemote is wrapped by errors the API reported itself.
var ErrRemote = errors.New("search api error")

// Config holds search API client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	SessionID string // sent as X-Session-ID so searches land in history
	CB        provider.CBConfig
}

// Client implements domain.Searcher against a remote catalog service.
// Failed requests are not retried; the caller decides whether to retry.
type Client struct {
	client    *resty.Client
	cb        *gobreaker.CircuitBreaker[*resty.Response]
	sessionID string
	logger    *zap.Logger
}

var _ domain.Searcher = (*Client)(nil)

// New creates a search API client. A zero CB config gets a breaker that opens
// after most of a minute's requests failed.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.CB.FailureRatio <= 0 {
		cfg.CB = provider.CBConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			FailureRatio: 0.6,
		}
	}

	rc := provider.NewRestyClient(provider.ClientConfig{
		Name:    "searchapi",
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	rc.SetRetryCount(0)

	return &Client{
		client:    rc,
		cb:        provider.NewCircuitBreaker[*resty.Response]("searchapi", cfg.CB, logger),
		sessionID: cfg.SessionID,
		logger:    logger,
	}
}

type searchBody struct {
	Query        string   `json:"q"`
	Type         []string `json:"type,omitempty"`
	Subject      []string `json:"subject,omitempty"`
	Author       string   `json:"author,omitempty"`
	Year         string   `json:"year,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Language     []string `json:"language,omitempty"`
	DocumentType []string `json:"document_type,omitempty"`
	SortBy       string   `json:"sort_by,omitempty"`
	Page         int      `json:"page,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

type envelope struct {
	Success    bool                   `json:"success"`
	Results    []*domain.SearchResult `json:"results"`
	Pagination domain.Pagination      `json:"pagination"`
	SearchInfo domain.SearchInfo      `json:"search_info"`
	Facets     domain.FacetSet        `json:"facets"`
	Error      string                 `json:"error"`
	Code       string                 `json:"code"`
}

// Search runs params on the remote catalog.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	f := params.Filters
	body := searchBody{
		Query:        params.Query,
		Type:         f.ResourceType,
		Subject:      f.Subject,
		Author:       f.Author,
		Year:         f.Year,
		Duration:     f.Duration,
		Language:     f.Language,
		DocumentType: f.DocumentType,
		SortBy:       string(params.SortBy),
		Page:         params.Page,
		Limit:        params.Limit,
	}

	var env envelope
	err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).SetResult(&env).SetError(&env).Post(searchPath)
	})
	if err != nil {
		return nil, err
	}
	if env.Results == nil {
		env.Results = make([]*domain.SearchResult, 0)
	}

	return &domain.SearchResponse{
		Results:    env.Results,
		Pagination: env.Pagination,
		SearchInfo: env.SearchInfo,
	}, nil
}

// Facets returns the facet set for the criteria of params.
func (c *Client) Facets(ctx context.Context, params domain.SearchParams, facetQuery string) (domain.FacetSet, error) {
	var env envelope
	err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		r.SetQueryParam("q", params.Query).
			SetQueryParam("author", params.Filters.Author).
			SetQueryParam("year", params.Filters.Year).
			SetQueryParam("duration", params.Filters.Duration).
			SetQueryParam("facet_q", facetQuery)
		r.QueryParam["type"] = params.Filters.ResourceType
		r.QueryParam["subject"] = params.Filters.Subject
		r.QueryParam["language"] = params.Filters.Language
		r.QueryParam["document_type"] = params.Filters.DocumentType
		return r.SetResult(&env).SetError(&env).Get(facetsPath)
	})
	if err != nil {
		return domain.FacetSet{}, err
	}
	return env.Facets, nil
}

// HistoryEntry is a remembered search as reported by the API.
type HistoryEntry struct {
	Query      string               `json:"query"`
	Filters    domain.SearchFilters `json:"filters"`
	SearchedAt time.Time            `json:"searched_at"`
}

// History returns the recent searches of the client session.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	if c.sessionID == "" {
		return nil, nil
	}

	var out struct {
		Entries []HistoryEntry `json:"entries"`
	}
	var env envelope
	err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).SetError(&env).Get(historyPath)
	})
	if err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// do executes one request through the circuit breaker. Responses with status
// 4xx count as successes for the breaker.
func (c *Client) do(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) error {
	requestID := uuid.NewString()

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r := c.client.R().
			SetContext(ctx).
			SetHeader(requestIDHeader, requestID)
		if c.sessionID != "" {
			r.SetHeader(sessionHeader, c.sessionID)
		}

		resp, err := send(r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= 500 {
			return resp, remoteError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug("search api request failed",
			zap.String("request_id", requestID),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)
		if errors.Is(err, ErrRemote) {
			return err
		}
		return fmt.Errorf("search api: %w", err)
	}

	if resp.IsError() {
		return remoteError(resp)
	}
	return nil
}

func remoteError(resp *resty.Response) error {
	if env, ok := resp.Error().(*envelope); ok && env.Error != "" {
		if env.Code != "" {
			return fmt.Errorf("%w: %s (%s)", ErrRemote, env.Error, env.Code)
		}
		return fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
	return fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode())
}
