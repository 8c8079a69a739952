package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/cache"
	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/line"
)

// HealthResponse is the system health report.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version,omitempty"`
}

// HealthHandler reports readiness of every collaborator the bot needs.
type HealthHandler struct {
	cfg  *config.AppConfig
	line *line.Client
}

// NewHealthHandler wires the health endpoint.
func NewHealthHandler(cfg *config.AppConfig, lineClient *line.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, line: lineClient}
}

// Health handles GET /api/health. Readiness is a configuration check: the
// external providers are not probed here, a live probe per health poll
// would hammer the schedule site.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	// ============================================================================
	// CHECK: Transit schedule provider
	// ============================================================================
	if h.cfg.Transit.BaseURL == "" {
		services["transit"] = "not_configured"
		overall = "degraded"
	} else if h.cfg.Transit.From == "" || h.cfg.Transit.To == "" {
		services["transit"] = "missing_stations"
		overall = "degraded"
	} else {
		services["transit"] = "configured"
	}

	// ============================================================================
	// CHECK: Directions provider
	// ============================================================================
	if h.cfg.Directions.BaseURL == "" {
		services["directions"] = "not_configured"
		overall = "degraded"
	} else if h.cfg.Directions.APIKey == "" {
		services["directions"] = "no_api_key"
		overall = "degraded"
	} else {
		services["directions"] = "configured"
	}

	// ============================================================================
	// CHECK: Messaging platform credentials
	// ============================================================================
	if h.line != nil && h.line.Configured() {
		services["line"] = "configured"
	} else {
		// The REST endpoints still work, only webhook replies are off.
		services["line"] = "not_configured"
	}

	// ============================================================================
	// CHECK: Caches
	// ============================================================================
	if cache.ScheduleCache != nil && cache.DirectionsCache != nil {
		services["cache"] = "healthy"
	} else {
		services["cache"] = "not_initialized"
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
	})
}
