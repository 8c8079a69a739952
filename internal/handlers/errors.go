package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/models"
)

// journeyStatus maps an engine failure to an HTTP status and JSON body.
// Raw transport errors never reach the response; anything unclassified
// comes back as a generic 500.
func journeyStatus(err error) (int, fiber.Map) {
	var je *models.JourneyError
	if !errors.As(err, &je) {
		return fiber.StatusInternalServerError, fiber.Map{
			"error": "internal error",
		}
	}

	status := fiber.StatusBadGateway
	switch je.Kind {
	case models.InvalidQuery:
		status = fiber.StatusBadRequest
	case models.RouteNotFound:
		status = fiber.StatusNotFound
	}

	body := fiber.Map{
		"error": je.Detail,
		"kind":  je.Kind,
	}
	if je.Leg != "" {
		body["leg"] = je.Leg
	}
	return status, body
}
