package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yourorg/okaeri/internal/debug"
	"github.com/yourorg/okaeri/internal/line"
	"github.com/yourorg/okaeri/internal/models"
)

const signatureHeader = "X-Line-Signature"

// EventHandler is the engine slice the webhook needs.
type EventHandler interface {
	Handle(ctx context.Context, event models.TriggerEvent) string
}

// WebhookHandler receives webhook deliveries from the messaging platform
// and answers each event through the journey engine.
type WebhookHandler struct {
	engine EventHandler
	client *line.Client
}

// NewWebhookHandler wires the webhook endpoint.
func NewWebhookHandler(engine EventHandler, client *line.Client) *WebhookHandler {
	return &WebhookHandler{engine: engine, client: client}
}

// HandleCallback processes POST /callback.
//
// The platform retries deliveries that do not get a 2xx, so everything
// past signature verification answers 200: a failing event is logged and
// skipped, never bounced back for redelivery.
func (h *WebhookHandler) HandleCallback(c *fiber.Ctx) error {
	body := c.Body()

	if !h.client.ValidateSignature(body, c.Get(signatureHeader)) {
		debug.LogWarn("Webhook rejected: bad signature", map[string]interface{}{
			"ip": c.IP(),
		})
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "invalid signature",
		})
	}

	var req line.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "invalid webhook body",
		})
	}

	handled := 0
	for _, event := range req.Events {
		trigger, ok := event.Trigger()
		if !ok {
			continue // joins, unfollows, stickers
		}

		eventID := uuid.NewString()
		reply := h.engine.Handle(c.UserContext(), trigger)
		handled++

		debug.LogInfo("Webhook event handled", map[string]interface{}{
			"event_id": eventID,
			"kind":     trigger.Kind,
		})

		if event.ReplyToken == "" {
			continue
		}
		if err := h.client.Reply(c.UserContext(), event.ReplyToken, reply); err != nil {
			debug.LogError("Reply delivery failed", map[string]interface{}{
				"event_id": eventID,
				"error":    err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"events": handled,
	})
}
