package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/bot"
	"github.com/yourorg/okaeri/internal/cache"
	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/format"
	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/station"
)

// ScheduleHandler exposes the schedule extractor over REST so the lookup
// can be exercised without going through the messaging platform.
type ScheduleHandler struct {
	extractor bot.ScheduleFetcher
	transit   config.TransitConfig
	now       func() time.Time
}

// NewScheduleHandler wires the schedule endpoint.
func NewScheduleHandler(extractor bot.ScheduleFetcher, cfg *config.AppConfig) *ScheduleHandler {
	return &ScheduleHandler{
		extractor: extractor,
		transit:   cfg.Transit,
		now:       time.Now,
	}
}

// GetSchedule handles GET /api/schedule?from=X&to=Y.
// Both parameters default to the configured home pair.
func (h *ScheduleHandler) GetSchedule(c *fiber.Ctx) error {
	origin := station.Normalize(c.Query("from", h.transit.From))
	destination := station.Normalize(c.Query("to", h.transit.To))

	if origin == "" || destination == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "from and to stations are required",
		})
	}

	key := cache.ScheduleKey(origin, destination)
	if cache.ScheduleCache != nil {
		if cached, found := cache.ScheduleCache.Get(key); found {
			if result, ok := cached.(*models.ScheduleResult); ok {
				return c.JSON(fiber.Map{
					"status":  "ok",
					"cached":  true,
					"from":    origin,
					"to":      destination,
					"result":  result,
					"message": format.Schedule(result),
				})
			}
		}
	}

	result, err := h.extractor.Fetch(c.UserContext(), models.ScheduleQuery{
		Origin:        origin,
		Destination:   destination,
		ReferenceTime: h.now(),
	})
	if err != nil {
		status, body := journeyStatus(err)
		return c.Status(status).JSON(body)
	}

	if cache.ScheduleCache != nil {
		cache.ScheduleCache.Set(key, result)
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"cached":  false,
		"from":    origin,
		"to":      destination,
		"result":  result,
		"message": format.Schedule(result),
	})
}
