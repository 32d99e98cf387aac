package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/gorillastore/internal/handlers"
	"github.com/soltixdb/gorillastore/internal/logging"
	"github.com/soltixdb/gorillastore/internal/storage"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, store *storage.Store) *handlers.Handler {
	h := handlers.New(logger, store)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check
	app.Get("/health", h.Health)

	v1 := app.Group("/v1")

	// Data ingestion
	v1.Post("/series/:key/points", h.Write)
	v1.Post("/series/:key/points/batch", h.WriteBatch)
	v1.Delete("/series/:key", h.Delete)

	// Data query
	v1.Get("/series/:key/query", h.Query)
	v1.Get("/series/:key/stats", h.SeriesStats)
	v1.Get("/stats", h.Stats)
	v1.Get("/correlate", h.Correlate)
	v1.Get("/export", h.Export)

	// 404 fallback
	app.Use(h.NotFound)

	return h
}
