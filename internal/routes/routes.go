package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/yourorg/okaeri/internal/debug"
	"github.com/yourorg/okaeri/internal/handlers"
	"github.com/yourorg/okaeri/internal/middleware"
)

// Deps carries the constructed handlers into route registration.
type Deps struct {
	Webhook  *handlers.WebhookHandler
	Schedule *handlers.ScheduleHandler
	Trip     *handlers.TripHandler
	Health   *handlers.HealthHandler
}

// Register mounts every route on the app.
func Register(app *fiber.App, deps Deps) {
	// ============================================================================
	// WEBHOOK (the messaging platform POSTs here)
	// ============================================================================
	// No rate limiting: the platform signs each delivery and retries on
	// non-2xx, throttling it only multiplies deliveries.
	app.Post("/callback", deps.Webhook.HandleCallback)

	// ============================================================================
	// REST API (debug / manual exercise of the engine)
	// ============================================================================
	api := app.Group("/api")

	// Health check (no rate limiting)
	api.Get("/health", deps.Health.Health)
	api.Get("/status", handlers.GetStatus)

	api.Use(middleware.RateLimiter())

	// Schedule lookups hit the provider site, keep them on the tight limiter
	api.Get("/schedule", middleware.ScrapingRateLimiter(), deps.Schedule.GetSchedule)
	api.Get("/trip", deps.Trip.GetTrip)

	// ============================================================================
	// CACHE ADMINISTRATION
	// ============================================================================
	api.Get("/cache/stats", handlers.GetCacheStats)
	api.Delete("/cache", handlers.ClearCache)

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
