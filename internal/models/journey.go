package models

import (
	"fmt"
	"time"
)

// ErrorKind classifies every failure the journey engine can produce.
type ErrorKind string

const (
	// NetworkError covers transport failures, timeouts and non-2xx responses.
	NetworkError ErrorKind = "network_error"
	// ParseError means the provider page structure changed or too few time
	// tokens were recoverable from it.
	ParseError ErrorKind = "parse_error"
	// TimeParseError means a malformed HH:MM token.
	TimeParseError ErrorKind = "time_parse_error"
	// RouteNotFound means the directions provider returned no usable route.
	RouteNotFound ErrorKind = "route_not_found"
	// InvalidQuery means an empty or unnormalizable station name or address.
	InvalidQuery ErrorKind = "invalid_query"
)

// Leg identifiers used to tag trip composer failures.
const (
	LegWalk    = "walk"
	LegTransit = "transit"
	LegBike    = "bike"
)

// JourneyError is the only error type that crosses the engine boundary.
// Detail is user-presentable; it never carries provider URLs or raw
// transport errors.
type JourneyError struct {
	Kind   ErrorKind
	Leg    string // set only for trip composer failures
	Detail string
}

func (e *JourneyError) Error() string {
	if e.Leg != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Leg, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewJourneyError builds a JourneyError without a leg tag.
func NewJourneyError(kind ErrorKind, detail string) *JourneyError {
	return &JourneyError{Kind: kind, Detail: detail}
}

// NewLegError builds a JourneyError tagged with the leg that failed.
func NewLegError(kind ErrorKind, leg, detail string) *JourneyError {
	return &JourneyError{Kind: kind, Leg: leg, Detail: detail}
}

// UnknownField is the sentinel rendered for schedule sub-fields that could
// not be recovered from the provider page.
const UnknownField = "-"

// ScheduleQuery describes one origin/destination lookup against the
// transit-search site. Built fresh per request and never mutated.
type ScheduleQuery struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	ReferenceTime time.Time `json:"reference_time"`
}

// ScheduleResult is a successfully extracted route summary. Departure and
// Arrival are bare HH:MM tokens; the remaining labels are best-effort and
// default to UnknownField.
type ScheduleResult struct {
	Departure      string `json:"departure"`
	Arrival        string `json:"arrival"`
	ArrivalNextDay bool   `json:"arrival_next_day"`
	Duration       string `json:"duration"`
	Transfers      string `json:"transfers"`
	Line           string `json:"line"`
}

// Coordinate represents a geographic position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TripLeg is one mode-homogeneous segment of a composed trip. Arrival is
// only set for legs whose provider reported a wall-clock arrival (the
// transit leg).
type TripLeg struct {
	Mode     string     `json:"mode"` // "walking", "transit", "bicycling"
	Duration string     `json:"duration"`
	Arrival  *time.Time `json:"arrival,omitempty"`
}

// Itinerary is the ordered composition of all trip legs plus the derived
// home-arrival estimate. Built once per trigger event and discarded after
// formatting.
type Itinerary struct {
	Legs                 []TripLeg `json:"legs"`
	EstimatedHomeArrival time.Time `json:"estimated_home_arrival"`
}
