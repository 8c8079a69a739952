// Package trip stitches walking, rail and cycling legs from the directions
// provider into one door-to-door itinerary home.
package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/directions"
	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/timeutil"
)

const (
	errTripConfig  = "自宅までの経路設定が不完全です"
	errWalkLeg     = "駅までの徒歩ルートが見つかりませんでした"
	errTransitLeg  = "電車のルートが見つかりませんでした"
	errBikeLeg     = "自宅までの自転車ルートが見つかりませんでした"
	errTransitTime = "電車の到着時刻を読み取れませんでした"
)

// DirectionsAPI is the slice of the directions client the composer needs.
type DirectionsAPI interface {
	Route(ctx context.Context, req directions.Request) (*directions.Response, error)
}

// Composer builds a three-leg itinerary: walk to the station, rail toward
// home, bicycle for the last mile.
type Composer struct {
	dir DirectionsAPI
	cfg config.TripConfig
	now func() time.Time
}

// NewComposer creates a composer over a directions client and the fixed
// home/station configuration.
func NewComposer(dir DirectionsAPI, cfg config.TripConfig) *Composer {
	return &Composer{dir: dir, cfg: cfg, now: time.Now}
}

// Compose issues one directions request per leg, sequentially, and
// short-circuits on the first leg that fails: a partial itinerary is not
// useful, and later legs are moot once an earlier one is missing. On
// success the home-arrival estimate is the transit arrival plus the
// cycling duration (the configured last-mile offset when the provider's
// duration label is unparseable).
func (c *Composer) Compose(ctx context.Context, origin models.Coordinate) (*models.Itinerary, error) {
	if c.cfg.StationAnchor == "" || c.cfg.HomeAddress == "" {
		return nil, models.NewJourneyError(models.InvalidQuery, errTripConfig)
	}

	originParam := directions.FormatCoordinate(origin)
	ref := c.now()

	walkLeg, err := c.requestLeg(ctx, directions.Request{
		Origin:      originParam,
		Destination: c.cfg.StationAnchor,
		Mode:        directions.ModeWalking,
	}, models.LegWalk, errWalkLeg)
	if err != nil {
		return nil, err
	}

	transitLeg, err := c.requestLeg(ctx, directions.Request{
		Origin:      originParam,
		Destination: c.cfg.StationAnchor,
		Mode:        directions.ModeTransit,
		DepartNow:   true,
	}, models.LegTransit, errTransitLeg)
	if err != nil {
		return nil, err
	}

	transitArrival, err := c.resolveTransitArrival(transitLeg, ref)
	if err != nil {
		return nil, err
	}

	bikeLeg, err := c.requestLeg(ctx, directions.Request{
		Origin:      c.cfg.StationAnchor,
		Destination: c.cfg.HomeAddress,
		Mode:        directions.ModeBicycling,
	}, models.LegBike, errBikeLeg)
	if err != nil {
		return nil, err
	}

	bikeMinutes, ok := timeutil.ParseDurationMinutes(bikeLeg.Duration.Text)
	if !ok {
		bikeMinutes = c.cfg.LastMileMinutes
	}

	return &models.Itinerary{
		Legs: []models.TripLeg{
			{Mode: directions.ModeWalking, Duration: legDuration(walkLeg)},
			{Mode: directions.ModeTransit, Duration: legDuration(transitLeg), Arrival: &transitArrival},
			{Mode: directions.ModeBicycling, Duration: legDuration(bikeLeg)},
		},
		EstimatedHomeArrival: timeutil.AddMinutes(transitArrival, bikeMinutes),
	}, nil
}

// requestLeg runs one directions request and classifies its outcome,
// tagging every failure with the leg it belongs to.
func (c *Composer) requestLeg(ctx context.Context, req directions.Request, leg, detail string) (*directions.Leg, error) {
	resp, err := c.dir.Route(ctx, req)
	if err != nil {
		var je *models.JourneyError
		if errors.As(err, &je) {
			return nil, models.NewLegError(je.Kind, leg, je.Detail)
		}
		return nil, models.NewLegError(models.NetworkError, leg, detail)
	}

	first, ok := resp.FirstLeg()
	if !ok {
		return nil, models.NewLegError(models.RouteNotFound, leg, detail)
	}
	return first, nil
}

// resolveTransitArrival turns the provider's wall-clock arrival label into
// an absolute timestamp relative to now.
func (c *Composer) resolveTransitArrival(leg *directions.Leg, ref time.Time) (time.Time, error) {
	if leg.ArrivalTime == nil || strings.TrimSpace(leg.ArrivalTime.Text) == "" {
		return time.Time{}, models.NewLegError(models.TimeParseError, models.LegTransit, errTransitTime)
	}
	ts, err := timeutil.ResolveClock(strings.TrimSpace(leg.ArrivalTime.Text), false, ref)
	if err != nil {
		return time.Time{}, models.NewLegError(models.TimeParseError, models.LegTransit, errTransitTime)
	}
	return ts, nil
}

func legDuration(leg *directions.Leg) string {
	if s := strings.TrimSpace(leg.Duration.Text); s != "" {
		return s
	}
	return models.UnknownField
}
