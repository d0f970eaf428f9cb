package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/searchcache"
)

// SearchService runs catalog searches over the in-memory snapshot.
type SearchService struct {
	catalog *Catalog
	repo    domain.ResourceRepository
	cache   *searchcache.Cache
	locale  language.Tag
	logger  *zap.Logger
}

// NewSearchService creates a new SearchService. The cache is cleared whenever
// the catalog reloads. A nil cache disables response caching.
func NewSearchService(catalog *Catalog, repo domain.ResourceRepository, cache *searchcache.Cache, locale language.Tag, logger *zap.Logger) *SearchService {
	s := &SearchService{
		catalog: catalog,
		repo:    repo,
		cache:   cache,
		locale:  locale,
		logger:  logger,
	}
	catalog.OnReload(s.ClearCache)
	return s
}

var _ domain.Searcher = (*SearchService)(nil)

// Search filters, sorts and paginates the catalog.
// A search without query or filters returns an empty response.
func (s *SearchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	all, generation := s.catalog.View()
	strategy := params.Strategy()

	s.logger.Debug("searching catalog",
		zap.String("query", params.Query),
		zap.String("strategy", string(strategy)),
		zap.String("sort_by", string(params.SortBy)),
		zap.Int("page", params.Page),
		zap.Int("limit", params.Limit),
	)

	if !domain.HasActiveFilters(params.Query, params.Filters) {
		return domain.EmptyResponse(params, len(all)), nil
	}

	// Entries are scoped to the snapshot they were computed from.
	key := strconv.FormatUint(generation, 10) + ":" + searchcache.BuildKey(params)
	if s.cache != nil {
		if entry, ok := s.cache.Get(key); ok {
			s.logger.Debug("search cache hit", zap.String("key", key))
			return entry.Data, nil
		}
	}

	filtered := domain.FilterResults(all, params.Query, params.Filters)
	sorted := domain.SortResultsLocale(filtered, params.SortBy, params.Query, s.locale)
	resp := domain.Paginate(sorted, params, domain.SearchInfo{
		Query:    params.Query,
		Strategy: strategy,
		SortBy:   params.SortBy,
		Searched: len(all),
	})

	if s.cache != nil && s.catalog.Generation() == generation {
		s.cache.Set(key, resp, strategy)
	}

	s.logger.Debug("search completed",
		zap.Int("total", resp.Pagination.TotalResults),
		zap.Int("count", len(resp.Results)),
	)

	return resp, nil
}

// Facets returns the facet set of the resources matching params, or of the
// whole catalog when params carry no criteria. facetQuery narrows the facets.
func (s *SearchService) Facets(ctx context.Context, params domain.SearchParams, facetQuery string) (domain.FacetSet, error) {
	if err := ctx.Err(); err != nil {
		return domain.FacetSet{}, err
	}

	base := s.catalog.All()
	if domain.HasActiveFilters(params.Query, params.Filters) {
		base = domain.FilterResults(base, params.Query, params.Filters)
	}

	return domain.BuildFacetSet(base).Filter(facetQuery), nil
}

// GetByID retrieves a single resource by its internal ID.
func (s *SearchService) GetByID(ctx context.Context, id string) (*domain.SearchResult, error) {
	r, err := s.catalog.Get(ctx, id)
	if err != nil {
		s.logger.Error("get by id failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return r, nil
}

// Count returns the number of stored resources of a type, or of all types
// when resourceType is empty.
func (s *SearchService) Count(ctx context.Context, resourceType domain.ResourceType) (int64, error) {
	return s.repo.Count(ctx, resourceType)
}

// ClearCache drops every cached search response.
func (s *SearchService) ClearCache() {
	if s.cache == nil {
		return
	}
	n := s.cache.Len()
	s.cache.Clear()
	s.logger.Info("search cache cleared", zap.Int("entries", n))
}
