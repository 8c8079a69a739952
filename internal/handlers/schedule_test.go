package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/models"
)

type fakeFetcher struct {
	lastQuery models.ScheduleQuery
	result    *models.ScheduleResult
	err       error
}

func (f *fakeFetcher) Fetch(_ context.Context, query models.ScheduleQuery) (*models.ScheduleResult, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newScheduleApp(fetcher *fakeFetcher) *fiber.App {
	cfg := &config.AppConfig{}
	cfg.Transit.From = "西宮駅"
	cfg.Transit.To = "大阪駅"

	h := NewScheduleHandler(fetcher, cfg)
	h.now = func() time.Time { return time.Date(2024, 6, 3, 18, 0, 0, 0, time.Local) }

	app := fiber.New()
	app.Get("/api/schedule", h.GetSchedule)
	return app
}

func TestGetScheduleNormalizesConfiguredPair(t *testing.T) {
	fetcher := &fakeFetcher{result: &models.ScheduleResult{
		Departure: "18:12",
		Arrival:   "18:29",
		Duration:  "17分",
		Transfers: "乗換：0回",
		Line:      "阪急神戸本線",
	}}
	app := newScheduleApp(fetcher)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/schedule", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	if fetcher.lastQuery.Origin != "西宮" || fetcher.lastQuery.Destination != "大阪" {
		t.Errorf("Expected normalized station pair, got %s -> %s",
			fetcher.lastQuery.Origin, fetcher.lastQuery.Destination)
	}

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", parsed["status"])
	}
	if parsed["from"] != "西宮" || parsed["to"] != "大阪" {
		t.Errorf("Expected normalized pair in response, got %v -> %v", parsed["from"], parsed["to"])
	}
}

func TestGetScheduleQueryOverridesConfig(t *testing.T) {
	fetcher := &fakeFetcher{result: &models.ScheduleResult{Departure: "07:32", Arrival: "07:58"}}
	app := newScheduleApp(fetcher)

	req := httptest.NewRequest("GET", "/api/schedule?from=%E6%A2%85%E7%94%B0%E9%A7%85&to=%E4%B8%89%E5%AE%AE", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if fetcher.lastQuery.Origin != "梅田" || fetcher.lastQuery.Destination != "三宮" {
		t.Errorf("Expected query params to win, got %s -> %s",
			fetcher.lastQuery.Origin, fetcher.lastQuery.Destination)
	}
}

func TestGetScheduleMapsNetworkErrorToBadGateway(t *testing.T) {
	fetcher := &fakeFetcher{err: models.NewJourneyError(models.NetworkError, "経路検索サイトに接続できませんでした")}
	app := newScheduleApp(fetcher)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/schedule", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed["kind"] != string(models.NetworkError) {
		t.Errorf("Expected network_error kind, got %v", parsed["kind"])
	}
	if parsed["error"] != "経路検索サイトに接続できませんでした" {
		t.Errorf("Expected user-facing detail, got %v", parsed["error"])
	}
}

func TestGetScheduleRejectsEmptyStations(t *testing.T) {
	fetcher := &fakeFetcher{result: &models.ScheduleResult{}}
	cfg := &config.AppConfig{} // no configured pair
	h := NewScheduleHandler(fetcher, cfg)

	app := fiber.New()
	app.Get("/api/schedule", h.GetSchedule)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/schedule", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
