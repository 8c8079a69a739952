package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"

	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/directions"
	"github.com/yourorg/okaeri/internal/format"
	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/station"
	"github.com/yourorg/okaeri/internal/transit"
	"github.com/yourorg/okaeri/internal/trip"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	extractor := transit.NewExtractor(cfg.Transit)
	composer := trip.NewComposer(directions.NewClient(cfg.Directions), cfg.Trip)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Okaeri CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Schedule lookup")
		fmt.Println("3) Trip home from coordinates")
		fmt.Println("4) Watch schedule (poll with backoff)")
		fmt.Println("5) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck(cfg)
		case "2":
			doSchedule(reader, extractor, cfg)
		case "3":
			doTrip(reader, composer)
		case "4":
			doWatch(extractor, cfg)
		case "5":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown option")
		}
		fmt.Println()
	}
}

func doHealthCheck(cfg *config.AppConfig) {
	url := fmt.Sprintf("http://localhost:%d/api/health", cfg.Server.Port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Health check failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("GET %s -> %s\n", url, resp.Status)
}

func doSchedule(reader *bufio.Reader, extractor *transit.Extractor, cfg *config.AppConfig) {
	fmt.Printf("From station [%s]: ", cfg.Transit.From)
	from, _ := reader.ReadString('\n')
	from = strings.TrimSpace(from)
	if from == "" {
		from = cfg.Transit.From
	}

	fmt.Printf("To station [%s]: ", cfg.Transit.To)
	to, _ := reader.ReadString('\n')
	to = strings.TrimSpace(to)
	if to == "" {
		to = cfg.Transit.To
	}

	result, err := fetchSchedule(extractor, from, to)
	if err != nil {
		fmt.Println(format.Failure(err))
		return
	}
	fmt.Println(format.Schedule(result))
}

func doTrip(reader *bufio.Reader, composer *trip.Composer) {
	fmt.Print("Latitude: ")
	latRaw, _ := reader.ReadString('\n')
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		fmt.Println("Invalid latitude")
		return
	}

	fmt.Print("Longitude: ")
	lonRaw, _ := reader.ReadString('\n')
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		fmt.Println("Invalid longitude")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	itinerary, err := composer.Compose(ctx, models.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		fmt.Println(format.Failure(err))
		return
	}
	fmt.Println(format.Itinerary(itinerary, time.Now()))
}

// doWatch polls the configured schedule pair once a minute, backing off
// exponentially while the provider site misbehaves. Ctrl+C to stop.
func doWatch(extractor *transit.Extractor, cfg *config.AppConfig) {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Second,
		RandomizationFactor: 0.2,
		Multiplier:          2,
		MaxInterval:         10 * time.Minute,
		MaxElapsedTime:      30 * time.Minute,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}

	fmt.Printf("Watching %s -> %s (Ctrl+C to stop)\n", cfg.Transit.From, cfg.Transit.To)
	for {
		b.Reset()

		result, err := backoff.RetryNotifyWithData(
			func() (*models.ScheduleResult, error) {
				result, err := fetchSchedule(extractor, cfg.Transit.From, cfg.Transit.To)
				if err != nil {
					var je *models.JourneyError
					if errors.As(err, &je) && je.Kind == models.InvalidQuery {
						// No amount of retrying fixes a bad station pair
						return nil, backoff.Permanent(err)
					}
					return nil, err
				}
				return result, nil
			},
			b,
			func(err error, d time.Duration) {
				log.Printf("Backing off %s - lookup failed: %s", d, err)
			},
		)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("[%s]\n%s\n\n", time.Now().Format("15:04:05"), format.Schedule(result))
		time.Sleep(1 * time.Minute)
	}
}

func fetchSchedule(extractor *transit.Extractor, from, to string) (*models.ScheduleResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return extractor.Fetch(ctx, models.ScheduleQuery{
		Origin:        station.Normalize(from),
		Destination:   station.Normalize(to),
		ReferenceTime: time.Now(),
	})
}
