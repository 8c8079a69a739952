// Package directions is the client for the directions provider's JSON API.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/models"
)

// Travel modes accepted by the provider.
const (
	ModeWalking   = "walking"
	ModeTransit   = "transit"
	ModeBicycling = "bicycling"
)

// StatusOK is the provider's uniform success signal; anything else means
// no usable route.
const StatusOK = "OK"

const errProviderUnreachable = "経路案内サービスに接続できませんでした"

// Client queries the directions API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a directions client from the process configuration.
func NewClient(cfg config.DirectionsConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Request describes one leg lookup.
type Request struct {
	Origin      string
	Destination string
	Mode        string // ModeWalking, ModeTransit, ModeBicycling
	// DepartNow asks for a departure-time=now transit itinerary; the
	// provider then reports a wall-clock arrival for the leg.
	DepartNow bool
}

// Response mirrors the provider's JSON shape. status != "OK" or an empty
// routes list is the uniform no-route signal.
type Response struct {
	Status string  `json:"status"`
	Routes []Route `json:"routes"`
}

// Route is one suggested route made of legs.
type Route struct {
	Legs []Leg `json:"legs"`
}

// Leg is one segment of a route.
type Leg struct {
	Duration    TextValue  `json:"duration"`
	ArrivalTime *TextValue `json:"arrival_time,omitempty"`
}

// TextValue is the provider's {text, value} pair. Text is a localized
// human-readable label, Value the machine quantity.
type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// Route issues one directions request. Transport failures and non-2xx
// responses come back as NetworkError; a well-formed response is returned
// as-is, leaving the no-route classification to the caller.
func (c *Client) Route(ctx context.Context, req Request) (*Response, error) {
	u, err := url.Parse(c.baseURL + "/directions/json")
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errProviderUnreachable)
	}

	q := u.Query()
	q.Set("origin", req.Origin)
	q.Set("destination", req.Destination)
	q.Set("mode", req.Mode)
	if req.Mode == ModeTransit {
		q.Set("transit_mode", "rail")
	}
	if req.DepartNow {
		q.Set("departure_time", "now")
	}
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errProviderUnreachable)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errProviderUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewJourneyError(models.NetworkError, errProviderUnreachable)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errProviderUnreachable)
	}
	return &out, nil
}

// FirstLeg returns the first leg of the first route, validating every
// nested field before access.
func (r *Response) FirstLeg() (*Leg, bool) {
	if r == nil || r.Status != StatusOK || len(r.Routes) == 0 {
		return nil, false
	}
	if len(r.Routes[0].Legs) == 0 {
		return nil, false
	}
	return &r.Routes[0].Legs[0], true
}

// FormatCoordinate renders a coordinate as the "lat,lon" waypoint string
// the provider expects.
func FormatCoordinate(c models.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}
