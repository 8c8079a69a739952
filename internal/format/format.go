// Package format renders engine results into the plain-text replies handed
// to the messaging adapter.
package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourorg/okaeri/internal/models"
	"github.com/yourorg/okaeri/internal/timeutil"
)

const genericFailure = "エラーが発生しました。しばらくしてからもう一度お試しください"

// Schedule renders a single-pair schedule result. Every line keeps its
// fixed label; unrecovered fields show the unknown sentinel so the reply
// shape is stable.
func Schedule(res *models.ScheduleResult) string {
	arrival := res.Arrival
	if res.ArrivalNextDay {
		arrival = "翌日" + arrival
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚃 出発: %s\n", res.Departure)
	fmt.Fprintf(&b, "🏁 到着: %s\n", arrival)
	fmt.Fprintf(&b, "⏱ 所要時間: %s\n", res.Duration)
	fmt.Fprintf(&b, "🔁 乗換: %s\n", res.Transfers)
	fmt.Fprintf(&b, "🛤 路線: %s", res.Line)
	return b.String()
}

var legLabels = map[string]string{
	"walking":   "🚶 徒歩",
	"transit":   "🚃 電車",
	"bicycling": "🚲 自転車",
}

// Itinerary renders the three-leg trip home: one numbered block per leg in
// fixed order, then the derived home-arrival estimate. ref anchors the day
// marker of any rendered timestamp.
func Itinerary(it *models.Itinerary, ref time.Time) string {
	var b strings.Builder
	for i, leg := range it.Legs {
		label, ok := legLabels[leg.Mode]
		if !ok {
			label = leg.Mode
		}
		fmt.Fprintf(&b, "%d. %s: %s", i+1, label, leg.Duration)
		if leg.Arrival != nil {
			fmt.Fprintf(&b, "（%s 着）", timeutil.FormatClock(*leg.Arrival, ref))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "🏠 帰宅予定: %s", timeutil.FormatClock(it.EstimatedHomeArrival, ref))
	return b.String()
}

// Failure renders a failure for the end user: the classified detail only,
// never internal exception text or provider URLs.
func Failure(err error) string {
	var je *models.JourneyError
	if errors.As(err, &je) && je.Detail != "" {
		return je.Detail
	}
	return genericFailure
}
