package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/okaeri/internal/bot"
	"github.com/yourorg/okaeri/internal/cache"
	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/debug"
	"github.com/yourorg/okaeri/internal/directions"
	"github.com/yourorg/okaeri/internal/handlers"
	"github.com/yourorg/okaeri/internal/line"
	"github.com/yourorg/okaeri/internal/middleware"
	"github.com/yourorg/okaeri/internal/routes"
	"github.com/yourorg/okaeri/internal/transit"
	"github.com/yourorg/okaeri/internal/trip"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.DashboardLogger())

	// ============================================================================
	// CACHES
	// ============================================================================
	cache.InitCaches()

	// ============================================================================
	// JOURNEY ENGINE WIRING
	// ============================================================================
	extractor := transit.NewExtractor(cfg.Transit)
	directionsClient := directions.NewClient(cfg.Directions)
	composer := trip.NewComposer(directionsClient, cfg.Trip)
	engine := bot.NewEngine(extractor, composer, cfg)
	lineClient := line.NewClient(cfg.Line)

	if !lineClient.Configured() {
		log.Println("⚠️  LINE credentials missing: webhook replies disabled, REST API still available")
	}

	routes.Register(app, routes.Deps{
		Webhook:  handlers.NewWebhookHandler(engine, lineClient),
		Schedule: handlers.NewScheduleHandler(extractor, cfg),
		Trip:     handlers.NewTripHandler(composer),
		Health:   handlers.NewHealthHandler(cfg, lineClient),
	})

	if debug.IsEnabled() {
		go middleware.PeriodicMetricsCollector(30 * time.Second)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Shutdown signal received, closing server...")

		cache.StopCaches()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error closing server: %v", err)
		}

		log.Println("✅ Server closed cleanly")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("🚀 Server listening on %s", addr)
	log.Println("📍 Available endpoints:")
	log.Println("   POST   /callback           - Messaging platform webhook")
	log.Println("   GET    /api/schedule       - Schedule lookup (from/to)")
	log.Println("   GET    /api/trip           - Trip home from coordinates (lat/lon)")
	log.Println("   GET    /api/health         - Readiness report")
	log.Println("   GET    /api/cache/stats    - Cache statistics")
	log.Println("💡 Press Ctrl+C to stop")

	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
