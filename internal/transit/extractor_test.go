package transit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/models"
)

const structuredFixture = `<html><body>
<div class="routeSummary">
  <ul>
    <li class="departure"><time>07:32</time>発</li>
    <li class="arrival"><time>07:58</time>着</li>
    <li class="time">26分</li>
    <li class="transfer">乗換：1回</li>
  </ul>
</div>
<div class="routeDetail"><div class="transport">阪急神戸本線</div></div>
</body></html>`

const nextDayFixture = `<html><body>
<div class="routeSummary">
  <ul>
    <li class="departure"><time>23:51</time>発</li>
    <li class="arrival"><span class="nextday">翌日</span><time>00:15</time>着</li>
    <li class="time">24分</li>
    <li class="transfer">乗換：0回</li>
  </ul>
</div>
</body></html>`

const fallbackFixture = `<html><body>
<p>検索結果です。出発 7:32 に乗ると 7:58 に到着します。</p>
</body></html>`

const fallbackNextDayFixture = `<html><body>
<p>出発 23:51、到着は翌 0:05 です。</p>
</body></html>`

const insufficientFixture = `<html><body>
<p>現在 12:00 時点の運行情報はありません。</p>
</body></html>`

func newTestExtractor(t *testing.T, handler http.HandlerFunc) (*Extractor, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ext := NewExtractor(config.TransitConfig{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent",
		TimeoutSeconds: 5,
	})
	return ext, srv
}

func fixtureHandler(fixture string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixture))
	}
}

func testQuery() models.ScheduleQuery {
	return models.ScheduleQuery{
		Origin:        "西宮",
		Destination:   "大阪",
		ReferenceTime: time.Date(2024, 6, 3, 18, 5, 0, 0, time.Local),
	}
}

func TestFetchStructuredExtraction(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(structuredFixture))

	result, err := ext.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Departure != "07:32" || result.Arrival != "07:58" {
		t.Errorf("expected 07:32 -> 07:58, got %s -> %s", result.Departure, result.Arrival)
	}
	if result.ArrivalNextDay {
		t.Error("expected ArrivalNextDay=false without a marker")
	}
	if result.Duration != "26分" {
		t.Errorf("expected duration 26分, got %q", result.Duration)
	}
	if result.Transfers != "乗換：1回" {
		t.Errorf("expected transfer label, got %q", result.Transfers)
	}
	if result.Line != "阪急神戸本線" {
		t.Errorf("expected line label, got %q", result.Line)
	}
}

func TestFetchDetectsNextDayMarker(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(nextDayFixture))

	result, err := ext.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Arrival != "00:15" {
		t.Errorf("expected stripped arrival 00:15, got %q", result.Arrival)
	}
	if !result.ArrivalNextDay {
		t.Error("expected ArrivalNextDay=true from the 翌 marker")
	}
}

func TestFetchFallsBackToTextMining(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(fallbackFixture))

	result, err := ext.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Departure != "7:32" || result.Arrival != "7:58" {
		t.Errorf("expected 7:32 -> 7:58 from text mining, got %s -> %s", result.Departure, result.Arrival)
	}
	// Best-effort fields degrade to the sentinel, not to failure.
	if result.Duration != models.UnknownField || result.Transfers != models.UnknownField || result.Line != models.UnknownField {
		t.Errorf("expected unknown sentinels, got %q %q %q", result.Duration, result.Transfers, result.Line)
	}
}

func TestFetchFallbackDetectsNextDay(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(fallbackNextDayFixture))

	result, err := ext.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Arrival != "0:05" || !result.ArrivalNextDay {
		t.Errorf("expected next-day arrival 0:05, got %q (nextDay=%v)", result.Arrival, result.ArrivalNextDay)
	}
}

func TestFetchTooFewTimeTokensIsParseError(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(insufficientFixture))

	_, err := ext.Fetch(context.Background(), testQuery())
	var je *models.JourneyError
	if !errors.As(err, &je) || je.Kind != models.ParseError {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestFetchNonOKStatusIsNetworkError(t *testing.T) {
	ext, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := ext.Fetch(context.Background(), testQuery())
	var je *models.JourneyError
	if !errors.As(err, &je) || je.Kind != models.NetworkError {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestFetchUnreachableHostIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(fixtureHandler(structuredFixture))
	srv.Close() // connection refused from here on

	ext := NewExtractor(config.TransitConfig{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent",
		TimeoutSeconds: 1,
	})

	_, err := ext.Fetch(context.Background(), testQuery())
	var je *models.JourneyError
	if !errors.As(err, &je) || je.Kind != models.NetworkError {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestFetchEmptyStationIsInvalidQuery(t *testing.T) {
	ext, _ := newTestExtractor(t, fixtureHandler(structuredFixture))

	q := testQuery()
	q.Origin = ""
	_, err := ext.Fetch(context.Background(), q)
	var je *models.JourneyError
	if !errors.As(err, &je) || je.Kind != models.InvalidQuery {
		t.Fatalf("expected InvalidQuery, got %v", err)
	}
}

func TestFetchSendsBrowserIdentification(t *testing.T) {
	var gotUA string
	ext, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(structuredFixture))
	})

	if _, err := ext.Fetch(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "test-agent" {
		t.Errorf("expected configured user agent, got %q", gotUA)
	}
}

func TestBuildSearchURLEmbedsQueryAndSortFlag(t *testing.T) {
	ext := NewExtractor(config.TransitConfig{
		BaseURL:        "https://transit.example.com",
		TimeoutSeconds: 10,
	})
	raw := ext.buildSearchURL(testQuery())

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !strings.HasSuffix(u.Path, "/search/result") {
		t.Errorf("expected /search/result path, got %q", u.Path)
	}
	q := u.Query()
	expect := map[string]string{
		"from": "西宮", "to": "大阪",
		"y": "2024", "m": "06", "d": "03", "hh": "18", "mm": "05",
		"s": "1",
	}
	for key, want := range expect {
		if got := q.Get(key); got != want {
			t.Errorf("param %s = %q, expected %q", key, got, want)
		}
	}
}
