package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/transport/httpserver/dto"
)

// HistoryHandler serves the per-session search history.
type HistoryHandler struct {
	history *service.HistoryService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history *service.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	sessionID := c.Get(SessionHeader)
	if sessionID == "" {
		return missingSession(c)
	}

	return c.JSON(dto.HistoryResponse{
		SessionID: sessionID,
		Entries:   h.history.Recent(c.UserContext(), sessionID),
	})
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	sessionID := c.Get(SessionHeader)
	if sessionID == "" {
		return missingSession(c)
	}

	if err := h.history.Clear(c.UserContext(), sessionID); err != nil {
		h.logger.Error("clearing search history failed", zap.String("session_id", sessionID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to clear history",
			Code:  dto.CodeInternal,
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ClearAll handles DELETE /api/v1/admin/history
func (h *HistoryHandler) ClearAll(c *fiber.Ctx) error {
	if err := h.history.ClearAll(c.UserContext()); err != nil {
		h.logger.Error("clearing all search history failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to clear history",
			Code:  dto.CodeInternal,
		})
	}

	h.logger.Info("search history cleared for all sessions")
	return c.SendStatus(fiber.StatusNoContent)
}

func missingSession(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: SessionHeader + " header is required",
		Code:  dto.CodeMissingSession,
	})
}
