package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/transport/httpserver/dto"
	"library-catalog-service/internal/validator"
)

// CatalogHandler renders the server-side catalog page.
type CatalogHandler struct {
	searchService *service.SearchService
	catalog       *service.Catalog
	validator     *validator.Validator
	defaultLimit  int
	logger        *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.SearchService, catalog *service.Catalog, v *validator.Validator, defaultLimit int, logger *zap.Logger) *CatalogHandler {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultLimit
	}
	return &CatalogHandler{
		searchService: svc,
		catalog:       catalog,
		validator:     v,
		defaultLimit:  defaultLimit,
		logger:        logger,
	}
}

// Render handles GET /catalog
// Invalid parameters render the page with an error instead of results.
func (h *CatalogHandler) Render(c *fiber.Ctx) error {
	data := fiber.Map{
		"Title":        "Catálogo",
		"CatalogSize":  h.catalog.Size(),
		"LoadedAt":     h.catalog.LoadedAt(),
		"SortFields":   domain.SortFields,
		"Types":        domain.ResourceTypes,
		"HasCriteria":  false,
		"ErrorMessage": "",
	}

	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		data["ErrorMessage"] = "invalid query parameters"
		return c.Status(fiber.StatusBadRequest).Render("pages/catalog", data, "layouts/base")
	}
	if err := h.validator.Validate(&req); err != nil {
		data["ErrorMessage"] = err.Error()
		return c.Status(fiber.StatusBadRequest).Render("pages/catalog", data, "layouts/base")
	}

	params := req.ToSearchParams(h.defaultLimit)
	data["Request"] = req
	data["Params"] = params
	data["HasCriteria"] = domain.HasActiveFilters(params.Query, params.Filters)

	ctx := c.UserContext()
	facets, err := h.searchService.Facets(ctx, params, "")
	if err != nil {
		h.logger.Error("catalog facets failed", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	data["Facets"] = facets

	result, err := h.searchService.Search(ctx, params)
	if err != nil {
		h.logger.Error("catalog search failed", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	data["Results"] = result.Results
	data["Pagination"] = result.Pagination
	data["Info"] = result.SearchInfo

	return c.Render("pages/catalog", data, "layouts/base")
}
