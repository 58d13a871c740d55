package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/journey/internal/config"
	"github.com/studyhub/journey/internal/journey"
	"github.com/studyhub/journey/internal/middleware"
	"github.com/studyhub/journey/internal/store"
)

// SetupRoutes configures all routes for the service.
func SetupRoutes(app *fiber.App, cfg *config.Config, st store.Store, pipeline *journey.Pipeline) {
	handlers := NewHandlers(cfg, st, pipeline)

	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	journeys := api.Group("/journeys")
	{
		journeys.Get("/today", handlers.GetToday)
		journeys.Get("/:date", handlers.GetByDate)
	}

	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		admin.Post("/generate", handlers.TriggerGenerate)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
