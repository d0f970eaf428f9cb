// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/transport/httpserver/dto"
	"library-catalog-service/internal/validator"
)

// SessionHeader identifies a client session for search history.
const SessionHeader = "X-Session-ID"

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	service      *service.SearchService
	history      *service.HistoryService
	validator    *validator.Validator
	defaultLimit int
	logger       *zap.Logger
}

// NewSearchHandler creates a new SearchHandler. history may be nil.
func NewSearchHandler(svc *service.SearchService, history *service.HistoryService, v *validator.Validator, defaultLimit int, logger *zap.Logger) *SearchHandler {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultLimit
	}
	return &SearchHandler{
		service:      svc,
		history:      history,
		validator:    v,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c, "invalid query parameters")
	}

	return h.search(c, &req)
}

// SearchPost handles POST /api/v1/search
func (h *SearchHandler) SearchPost(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidParams(c, "invalid request body")
	}

	return h.search(c, &req)
}

func (h *SearchHandler) search(c *fiber.Ctx, req *dto.SearchRequest) error {
	if err := h.validator.Validate(req); err != nil {
		return validationFailed(c, err)
	}

	params := req.ToSearchParams(h.defaultLimit)
	result, err := h.service.Search(c.UserContext(), params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Error: "search canceled",
				Code:  dto.CodeCanceled,
			})
		}
		h.logger.Error("search failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "search failed",
			Code:  dto.CodeInternal,
		})
	}

	h.recordHistory(c, params)

	return c.JSON(dto.FromSearchResponse(result))
}

func (h *SearchHandler) recordHistory(c *fiber.Ctx, params domain.SearchParams) {
	sessionID := c.Get(SessionHeader)
	if h.history == nil || sessionID == "" || params.Page > 1 {
		return
	}
	if err := h.history.Record(c.UserContext(), sessionID, params.Query, params.Filters); err != nil {
		h.logger.Warn("recording search history failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// Facets handles GET /api/v1/facets
func (h *SearchHandler) Facets(c *fiber.Ctx) error {
	var req dto.FacetsRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c, "invalid query parameters")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	facets, err := h.service.Facets(c.UserContext(), req.ToSearchParams(h.defaultLimit), req.FacetQuery)
	if err != nil {
		h.logger.Error("facets failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "facets failed",
			Code:  dto.CodeInternal,
		})
	}

	return c.JSON(dto.FacetsResponse{Success: true, Facets: facets})
}

// GetByID handles GET /api/v1/resources/:id
func (h *SearchHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "id is required",
			Code:  dto.CodeMissingID,
		})
	}

	resource, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to get resource",
			Code:  dto.CodeInternal,
		})
	}

	if resource == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "resource not found",
			Code:  dto.CodeNotFound,
		})
	}

	return c.JSON(dto.FromDomainResource(resource))
}

func invalidParams(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  dto.CodeInvalidParams,
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    dto.CodeValidation,
		Details: err,
	})
}
