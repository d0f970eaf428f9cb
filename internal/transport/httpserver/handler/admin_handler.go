package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/job"
	"library-catalog-service/internal/transport/httpserver/dto"
)

// SyncRunner runs a full sync on demand. The scheduler implements it so that
// manual and scheduled syncs never overlap.
type SyncRunner interface {
	RunNow(ctx context.Context) ([]service.SyncResult, error)
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	syncService   *service.SyncService
	runner        SyncRunner
	searchService *service.SearchService
	logger        *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. When runner is nil, full syncs
// go straight to the sync service.
func NewAdminHandler(syncSvc *service.SyncService, runner SyncRunner, searchSvc *service.SearchService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		syncService:   syncSvc,
		runner:        runner,
		searchService: searchSvc,
		logger:        logger,
	}
}

// SyncAll handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncAll(c *fiber.Ctx) error {
	h.logger.Info("manual sync triggered")

	if h.runner == nil {
		return c.JSON(dto.FromSyncResults(h.syncService.SyncAll(c.UserContext())))
	}

	results, err := h.runner.RunNow(c.UserContext())
	if err != nil {
		if errors.Is(err, job.ErrSyncInProgress) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: err.Error(),
				Code:  dto.CodeSyncInProgress,
			})
		}
		h.logger.Error("manual sync failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  dto.CodeSyncFailed,
		})
	}

	return c.JSON(dto.FromSyncResults(results))
}

// SyncProvider handles POST /api/v1/admin/sync/:provider
func (h *AdminHandler) SyncProvider(c *fiber.Ctx) error {
	providerName := c.Params("provider")

	h.logger.Info("manual provider sync triggered", zap.String("provider", providerName))

	result, err := h.syncService.SyncProvider(c.UserContext(), providerName)
	if errors.Is(err, service.ErrProviderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "provider not found",
			Code:  dto.CodeProviderNotFound,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:   err.Error(),
			Code:    dto.CodeSyncFailed,
			Details: dto.FromSyncResult(*result),
		})
	}

	return c.JSON(dto.FromSyncResult(*result))
}

// GetProviders handles GET /api/v1/admin/providers
func (h *AdminHandler) GetProviders(c *fiber.Ctx) error {
	names := h.syncService.GetProviderNames()

	return c.JSON(fiber.Map{
		"providers": dto.FromHealth(names, h.syncService.HealthCheck(c.UserContext())),
	})
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	h.searchService.ClearCache()

	return c.SendStatus(fiber.StatusNoContent)
}
