package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/cache"
)

// ============================================================================
// CACHE STATISTICS ENDPOINTS
// ============================================================================
// GET /api/cache/stats
// DELETE /api/cache?type=schedule|directions|all

// GetCacheStats reports the state of every active cache.
func GetCacheStats(c *fiber.Ctx) error {
	stats := make(map[string]cache.Stats)
	var totalItems, totalValid, totalExpired int

	if cache.ScheduleCache != nil {
		s := cache.ScheduleCache.GetStats()
		stats["schedule"] = s
		totalItems += s.TotalItems
		totalValid += s.ValidItems
		totalExpired += s.ExpiredItems
	}
	if cache.DirectionsCache != nil {
		s := cache.DirectionsCache.GetStats()
		stats["directions"] = s
		totalItems += s.TotalItems
		totalValid += s.ValidItems
		totalExpired += s.ExpiredItems
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"summary": fiber.Map{
			"total_items":   totalItems,
			"valid_items":   totalValid,
			"expired_items": totalExpired,
		},
		"caches": stats,
	})
}

// ClearCache empties one cache or all of them.
func ClearCache(c *fiber.Ctx) error {
	cacheType := c.Query("type", "all")

	var cleared int

	switch cacheType {
	case "schedule":
		if cache.ScheduleCache != nil {
			cache.ScheduleCache.Clear()
			cleared = 1
		}
	case "directions":
		if cache.DirectionsCache != nil {
			cache.DirectionsCache.Clear()
			cleared = 1
		}
	case "all":
		if cache.ScheduleCache != nil {
			cache.ScheduleCache.Clear()
			cleared++
		}
		if cache.DirectionsCache != nil {
			cache.DirectionsCache.Clear()
			cleared++
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cache type. Use: schedule, directions, or all",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Cache cleared",
		"type":    cacheType,
		"cleared": cleared,
	})
}
