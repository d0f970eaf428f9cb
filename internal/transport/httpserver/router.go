// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/internal/transport/httpserver/dto"
	"library-catalog-service/internal/transport/httpserver/handler"
	"library-catalog-service/internal/transport/httpserver/middleware"
	"library-catalog-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	TemplatesDir string // defaults to ./web/templates
	StaticDir    string // defaults to ./web/static
	DefaultLimit int
	CORSOrigins  []string
}

// Deps are the services the routes are served from. History and SyncRunner
// are optional.
type Deps struct {
	Catalog    *service.Catalog
	Search     *service.SearchService
	Sync       *service.SyncService
	History    *service.HistoryService
	SyncRunner handler.SyncRunner
	Readiness  []middleware.Pinger
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Deps, v *validator.Validator, logger *zap.Logger) *Server {
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "./web/templates"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "./web/static"
	}

	engine := html.New(cfg.TemplatesDir, ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "library-catalog-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Readiness...))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(compress.New())

	app.Static("/static", cfg.StaticDir)

	searchHandler := handler.NewSearchHandler(deps.Search, deps.History, v, cfg.DefaultLimit, logger)
	adminHandler := handler.NewAdminHandler(deps.Sync, deps.SyncRunner, deps.Search, logger)
	catalogHandler := handler.NewCatalogHandler(deps.Search, deps.Catalog, v, cfg.DefaultLimit, logger)

	var historyHandler *handler.HistoryHandler
	if deps.History != nil {
		historyHandler = handler.NewHistoryHandler(deps.History, logger)
	}

	registerRoutes(app, searchHandler, adminHandler, catalogHandler, historyHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	searchHandler *handler.SearchHandler,
	adminHandler *handler.AdminHandler,
	catalogHandler *handler.CatalogHandler,
	historyHandler *handler.HistoryHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	app.Get("/catalog", catalogHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/catalog")
	})

	v1 := app.Group("/api/v1")

	v1.Get("/search", searchHandler.Search)
	v1.Post("/search", searchHandler.SearchPost)
	v1.Get("/facets", searchHandler.Facets)
	v1.Get("/resources/:id", searchHandler.GetByID)

	if historyHandler != nil {
		v1.Get("/history", historyHandler.List)
		v1.Delete("/history", historyHandler.Clear)
	}

	admin := v1.Group("/admin")
	admin.Post("/sync", adminHandler.SyncAll)
	admin.Post("/sync/:provider", adminHandler.SyncProvider)
	admin.Get("/providers", adminHandler.GetProviders)
	admin.Delete("/cache", adminHandler.ClearCache)
	if historyHandler != nil {
		admin.Delete("/history", historyHandler.ClearAll)
	}
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := dto.CodeUnhandled

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			errCode = dto.CodeNotFound
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			errCode = dto.CodeInternal
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
