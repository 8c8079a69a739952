package models

// Trigger kinds delivered by the messaging adapter.
const (
	TriggerText     = "text"
	TriggerLocation = "location"
)

// TriggerEvent is the inbound event handed to the engine by the messaging
// adapter: either a text command or a geographic coordinate.
type TriggerEvent struct {
	Kind      string  `json:"kind"`
	Body      string  `json:"body,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
