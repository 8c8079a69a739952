package line

import "github.com/yourorg/okaeri/internal/models"

// WebhookRequest is the platform's webhook POST body.
type WebhookRequest struct {
	Events []WebhookEvent `json:"events"`
}

// WebhookEvent is one delivered event. Only message events carry a payload
// the engine understands.
type WebhookEvent struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventMessage is the message payload of a webhook event.
type EventMessage struct {
	Type      string  `json:"type"`
	Text      string  `json:"text,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Trigger converts a webhook event into the engine's trigger shape.
// Returns false for event types the engine does not handle (joins,
// unfollows, stickers and so on).
func (e WebhookEvent) Trigger() (models.TriggerEvent, bool) {
	if e.Type != "message" || e.Message == nil {
		return models.TriggerEvent{}, false
	}
	switch e.Message.Type {
	case "text":
		return models.TriggerEvent{Kind: models.TriggerText, Body: e.Message.Text}, true
	case "location":
		return models.TriggerEvent{
			Kind:      models.TriggerLocation,
			Latitude:  e.Message.Latitude,
			Longitude: e.Message.Longitude,
		}, true
	default:
		return models.TriggerEvent{}, false
	}
}
