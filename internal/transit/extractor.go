// Package transit turns the transit-search site's results page into a
// structured schedule record. The page is an uncontrolled third party and
// its markup changes without notice, so extraction is two-tiered: semantic
// selectors first, free-text time mining as the fallback.
package transit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yourorg/okaeri/internal/config"
	"github.com/yourorg/okaeri/internal/models"
)

const (
	nextDayMarker = "翌"

	errSiteUnreachable = "経路検索サイトに接続できませんでした"
	errPageUnreadable  = "経路情報を読み取れませんでした"
	errEmptyStations   = "出発駅と到着駅を確認してください"
)

var timeTokenPattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// Extractor fetches and parses the transit-search results page.
type Extractor struct {
	baseURL    string
	userAgent  string
	dumpDir    string
	httpClient *http.Client
}

// NewExtractor creates an extractor from the process configuration.
func NewExtractor(cfg config.TransitConfig) *Extractor {
	return &Extractor{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		dumpDir:   cfg.DumpDir,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Fetch runs one schedule query against the provider. Failures are always
// classified models.JourneyError values; no transport or parsing error
// escapes raw.
func (e *Extractor) Fetch(ctx context.Context, query models.ScheduleQuery) (*models.ScheduleResult, error) {
	if query.Origin == "" || query.Destination == "" {
		return nil, models.NewJourneyError(models.InvalidQuery, errEmptyStations)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.buildSearchURL(query), nil)
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errSiteUnreachable)
	}
	// The provider rejects default client identification.
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errSiteUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewJourneyError(models.NetworkError, errSiteUnreachable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewJourneyError(models.NetworkError, errSiteUnreachable)
	}

	e.dumpRawPage(body)

	return parseResultPage(string(body))
}

// buildSearchURL embeds the origin/destination pair and the reference
// date/time, sorted by soonest arrival (s=1).
func (e *Extractor) buildSearchURL(query models.ScheduleQuery) string {
	ref := query.ReferenceTime
	params := url.Values{}
	params.Set("from", query.Origin)
	params.Set("to", query.Destination)
	params.Set("y", fmt.Sprintf("%04d", ref.Year()))
	params.Set("m", fmt.Sprintf("%02d", int(ref.Month())))
	params.Set("d", fmt.Sprintf("%02d", ref.Day()))
	params.Set("hh", fmt.Sprintf("%02d", ref.Hour()))
	params.Set("mm", fmt.Sprintf("%02d", ref.Minute()))
	params.Set("s", "1")
	return e.baseURL + "/search/result?" + params.Encode()
}

// dumpRawPage saves the fetched page for offline inspection when a dump
// directory is configured. Best effort only.
func (e *Extractor) dumpRawPage(body []byte) {
	if e.dumpDir == "" {
		return
	}
	name := fmt.Sprintf("transit_result_%d.html", time.Now().UnixNano())
	_ = os.WriteFile(filepath.Join(e.dumpDir, name), body, 0644)
}

// parseResultPage extracts a schedule record from the page. The structured
// tier reads the first route summary; when its selectors no longer resolve
// the fallback tier mines the full text for HH:MM tokens. Departure and
// arrival are mandatory for success, every other field degrades to the
// unknown sentinel independently.
func parseResultPage(html string) (result *models.ScheduleResult, err error) {
	// A malformed DOM must degrade to ParseError, never crash the engine.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = models.NewJourneyError(models.ParseError, errPageUnreadable)
		}
	}()

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if docErr != nil {
		return nil, models.NewJourneyError(models.ParseError, errPageUnreadable)
	}

	if result := extractStructured(doc); result != nil {
		return result, nil
	}
	return extractFromText(doc)
}

// extractStructured is the selector tier. A nil return means the markup no
// longer matches and the caller should fall back to text mining.
func extractStructured(doc *goquery.Document) *models.ScheduleResult {
	summary := doc.Find(".routeSummary").First()
	if summary.Length() == 0 {
		return nil
	}

	depRaw := summary.Find("li.departure time").First().Text()
	arrItem := summary.Find("li.arrival").First()
	arrRaw := arrItem.Find("time").First().Text()
	if arrRaw == "" {
		arrRaw = arrItem.Text()
	}

	// The next-day marker may annotate the time element itself or sit next
	// to it inside the arrival item.
	nextDay := strings.Contains(arrItem.Text(), nextDayMarker)

	departure := timeTokenPattern.FindString(depRaw)
	arrival := timeTokenPattern.FindString(arrRaw)
	if departure == "" || arrival == "" {
		return nil
	}

	return &models.ScheduleResult{
		Departure:      departure,
		Arrival:        arrival,
		ArrivalNextDay: nextDay,
		Duration:       fieldOrUnknown(summary.Find("li.time").First().Text()),
		Transfers:      fieldOrUnknown(summary.Find("li.transfer").First().Text()),
		Line:           fieldOrUnknown(doc.Find(".routeDetail .transport").First().Text()),
	}
}

// extractFromText is the fallback tier: every HH:MM-looking token in the
// rendered text, first one departure, last one arrival.
func extractFromText(doc *goquery.Document) (*models.ScheduleResult, error) {
	text := doc.Text()
	locations := timeTokenPattern.FindAllStringIndex(text, -1)
	if len(locations) < 2 {
		return nil, models.NewJourneyError(models.ParseError, errPageUnreadable)
	}

	first := text[locations[0][0]:locations[0][1]]
	last := locations[len(locations)-1]

	// The next-day marker sits immediately before the arrival token.
	prefixStart := last[0] - 12
	if prefixStart < 0 {
		prefixStart = 0
	}
	nextDay := strings.Contains(text[prefixStart:last[0]], nextDayMarker)

	return &models.ScheduleResult{
		Departure:      first,
		Arrival:        text[last[0]:last[1]],
		ArrivalNextDay: nextDay,
		Duration:       models.UnknownField,
		Transfers:      models.UnknownField,
		Line:           models.UnknownField,
	}, nil
}

func fieldOrUnknown(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return models.UnknownField
	}
	return s
}
