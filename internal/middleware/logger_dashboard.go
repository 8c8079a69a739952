package middleware

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/debug"
)

// DashboardLogger streams one log line per request to the debug dashboard.
func DashboardLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)

		level := "info"
		status := c.Response().StatusCode()

		if status >= 500 {
			level = "error"
		} else if status >= 400 {
			level = "warn"
		}

		// Tag the source by route so the dashboard can filter by provider
		source := "backend"
		path := c.Path()
		if strings.HasPrefix(path, "/api/schedule") {
			source = "transit"
		} else if strings.HasPrefix(path, "/api/trip") {
			source = "directions"
		} else if path == "/callback" {
			source = "webhook"
		}

		message := fmt.Sprintf("%s %s", c.Method(), path)

		metadata := map[string]interface{}{
			"method":      c.Method(),
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		}

		// The hub drops the message itself when nobody is connected
		debug.SendLog(source, level, message, metadata)

		return err
	}
}

// PeriodicMetricsCollector emits a heartbeat to the dashboard so operators
// can tell a quiet bot from a dead one.
func PeriodicMetricsCollector(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if !debug.IsEnabled() {
			continue
		}

		debug.SendLog("backend", "debug", "System heartbeat", map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
		})
	}
}
