package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/transport/httpserver/dto"
)

// Recover turns a handler panic into a 500 with the PANIC code.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := []zap.Field{
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			}
			if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
				fields = append(fields, zap.String("request_id", rid))
			}
			logger.Error("handler panicked", fields...)

			err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "internal server error",
				Code:  dto.CodePanic,
			})
		}()

		return c.Next()
	}
}
