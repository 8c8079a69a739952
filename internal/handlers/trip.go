package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/bot"
	"github.com/yourorg/okaeri/internal/cache"
	"github.com/yourorg/okaeri/internal/format"
	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/validation"
)

// TripHandler exposes the multi-leg trip composer over REST.
type TripHandler struct {
	composer bot.TripComposer
	now      func() time.Time
}

// NewTripHandler wires the trip endpoint.
func NewTripHandler(composer bot.TripComposer) *TripHandler {
	return &TripHandler{composer: composer, now: time.Now}
}

// GetTrip handles GET /api/trip?lat=X&lon=Y.
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat")
	lon := c.QueryFloat("lon")

	if err := validation.ValidateCoordinatePair(lat, lon, "origin"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}
	if validation.IsZeroCoordinate(lat, lon) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "lat and lon are required",
		})
	}

	key := cache.TripKey(lat, lon)
	if cache.DirectionsCache != nil {
		if cached, found := cache.DirectionsCache.Get(key); found {
			if itinerary, ok := cached.(*models.Itinerary); ok {
				return c.JSON(fiber.Map{
					"status":    "ok",
					"cached":    true,
					"itinerary": itinerary,
					"message":   format.Itinerary(itinerary, h.now()),
				})
			}
		}
	}

	itinerary, err := h.composer.Compose(c.UserContext(), models.Coordinate{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		status, body := journeyStatus(err)
		return c.Status(status).JSON(body)
	}

	if cache.DirectionsCache != nil {
		cache.DirectionsCache.Set(key, itinerary)
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"cached":    false,
		"itinerary": itinerary,
		"message":   format.Itinerary(itinerary, h.now()),
	})
}
