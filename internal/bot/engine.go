// Package bot routes inbound trigger events to the journey engine's
// schedule path or trip path and produces the outbound reply text.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yourorg/okaeri/internal/cache"
	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/debug"
	"github.com/yourorg/okaeri/internal/format"
	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/station"
	"github.com/yourorg/okaeri/internal/validation"
)

// GoingHomeCommand triggers the single-pair schedule path.
const GoingHomeCommand = "帰ります"

const (
	scheduleGreeting = "おかえりなさい！電車の時刻はこちらです🚃"
	tripGreeting     = "おかえりなさい！帰り道はこちらです🗺"

	errBadLocation = "位置情報を取得できませんでした。もう一度送ってください"
	errBadStations = "出発駅と到着駅の設定を確認してください"
)

// ScheduleFetcher is the schedule-extractor slice the engine needs.
type ScheduleFetcher interface {
	Fetch(ctx context.Context, query models.ScheduleQuery) (*models.ScheduleResult, error)
}

// TripComposer is the trip-composer slice the engine needs.
type TripComposer interface {
	Compose(ctx context.Context, origin models.Coordinate) (*models.Itinerary, error)
}

// Engine turns one trigger event into one reply. It holds no per-request
// state beyond atomic provider-status counters, so concurrent events need
// no locking.
type Engine struct {
	extractor ScheduleFetcher
	composer  TripComposer
	transit   config.TransitConfig
	now       func() time.Time

	transitStatus    atomic.Value // string
	directionsStatus atomic.Value // string
	scheduleErrors   atomic.Int64
	tripErrors       atomic.Int64
	lastFetch        atomic.Int64 // unix milliseconds
}

// NewEngine wires the engine from its collaborators and the read-only
// process configuration.
func NewEngine(extractor ScheduleFetcher, composer TripComposer, cfg *config.AppConfig) *Engine {
	e := &Engine{
		extractor: extractor,
		composer:  composer,
		transit:   cfg.Transit,
		now:       time.Now,
	}
	e.transitStatus.Store("unknown")
	e.directionsStatus.Store("unknown")
	return e
}

// publishProviderStatus pushes the current provider counters to the debug
// dashboard.
func (e *Engine) publishProviderStatus() {
	if !debug.IsEnabled() {
		return
	}
	debug.UpdateProviderStatus(
		e.transitStatus.Load().(string),
		e.directionsStatus.Load().(string),
		time.UnixMilli(e.lastFetch.Load()),
		int(e.scheduleErrors.Load()),
		int(e.tripErrors.Load()),
	)
}

// Handle processes one trigger event and returns the reply text. Every
// failure comes back as user-facing text; one failing event never affects
// the next.
func (e *Engine) Handle(ctx context.Context, event models.TriggerEvent) string {
	switch event.Kind {
	case models.TriggerText:
		return e.handleText(ctx, event.Body)
	case models.TriggerLocation:
		return e.handleLocation(ctx, event.Latitude, event.Longitude)
	default:
		return format.Failure(models.NewJourneyError(models.InvalidQuery, errBadLocation))
	}
}

func (e *Engine) handleText(ctx context.Context, body string) string {
	text := strings.TrimSpace(body)
	if text != GoingHomeCommand {
		// Original bot behavior: acknowledge anything that is not a command.
		return fmt.Sprintf("「%s」ですね！", text)
	}

	origin := station.Normalize(e.transit.From)
	destination := station.Normalize(e.transit.To)
	if origin == "" || destination == "" {
		return format.Failure(models.NewJourneyError(models.InvalidQuery, errBadStations))
	}

	key := cache.ScheduleKey(origin, destination)
	if cache.ScheduleCache != nil {
		if cached, found := cache.ScheduleCache.Get(key); found {
			if result, ok := cached.(*models.ScheduleResult); ok {
				return scheduleGreeting + "\n" + format.Schedule(result)
			}
		}
	}

	result, err := e.extractor.Fetch(ctx, models.ScheduleQuery{
		Origin:        origin,
		Destination:   destination,
		ReferenceTime: e.now(),
	})
	e.lastFetch.Store(e.now().UnixMilli())
	if err != nil {
		e.scheduleErrors.Add(1)
		e.transitStatus.Store("error")
		e.publishProviderStatus()
		return format.Failure(err)
	}
	e.transitStatus.Store("ok")
	e.publishProviderStatus()

	if cache.ScheduleCache != nil {
		cache.ScheduleCache.Set(key, result)
	}
	return scheduleGreeting + "\n" + format.Schedule(result)
}

func (e *Engine) handleLocation(ctx context.Context, lat, lon float64) string {
	if validation.IsZeroCoordinate(lat, lon) || validation.ValidateCoordinatePair(lat, lon, "origin") != nil {
		return format.Failure(models.NewJourneyError(models.InvalidQuery, errBadLocation))
	}

	key := cache.TripKey(lat, lon)
	if cache.DirectionsCache != nil {
		if cached, found := cache.DirectionsCache.Get(key); found {
			if itinerary, ok := cached.(*models.Itinerary); ok {
				return tripGreeting + "\n" + format.Itinerary(itinerary, e.now())
			}
		}
	}

	itinerary, err := e.composer.Compose(ctx, models.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		e.tripErrors.Add(1)
		e.directionsStatus.Store("error")
		e.publishProviderStatus()
		return format.Failure(err)
	}
	e.directionsStatus.Store("ok")
	e.publishProviderStatus()

	reply := tripGreeting + "\n" + format.Itinerary(itinerary, e.now())
	if cache.DirectionsCache != nil {
		cache.DirectionsCache.Set(key, itinerary)
	}
	return reply
}
