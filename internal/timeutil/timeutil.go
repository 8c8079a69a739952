// Package timeutil interprets the wall-clock tokens collected from external
// providers relative to a reference instant.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/yourorg/okaeri/internal/models"
)

var (
	clockPattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	minutePattern = regexp.MustCompile(`(\d+)\s*(?:min|分)`)
	hourPattern   = regexp.MustCompile(`(\d+)\s*(?:hour|時間)`)
)

// ResolveClock combines a bare "HH:MM" token with the calendar date of ref
// to produce an absolute timestamp in ref's location. When nextDay is set
// the date is advanced by one day first. A malformed token yields a
// TimeParseError; it is never silently defaulted.
func ResolveClock(token string, nextDay bool, ref time.Time) (time.Time, error) {
	m := clockPattern.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, models.NewJourneyError(models.TimeParseError,
			fmt.Sprintf("時刻「%s」を読み取れませんでした", token))
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, models.NewJourneyError(models.TimeParseError,
			fmt.Sprintf("時刻「%s」を読み取れませんでした", token))
	}

	day := ref
	if nextDay {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// AddMinutes adds a fixed offset to a timestamp. time.Add already rolls the
// date over midnight; the helper exists so call sites read as intent.
func AddMinutes(ts time.Time, minutes int) time.Time {
	return ts.Add(time.Duration(minutes) * time.Minute)
}

// FormatClock renders a timestamp as "HH:MM", prefixed with an explicit
// day marker when its date is strictly later than ref's date.
func FormatClock(ts, ref time.Time) string {
	refY, refM, refD := ref.Date()
	refMidnight := time.Date(refY, refM, refD, 0, 0, 0, 0, ref.Location())
	if ts.Sub(refMidnight) >= 24*time.Hour {
		return "翌日" + ts.Format("15:04")
	}
	return ts.Format("15:04")
}

// ParseDurationMinutes extracts the total minute count from a provider
// duration label such as "15分", "15 mins" or "1時間15分". Returns false
// when no time figure is present.
func ParseDurationMinutes(label string) (int, bool) {
	total := 0
	found := false
	if m := hourPattern.FindStringSubmatch(label); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil {
			total += hours * 60
			found = true
		}
	}
	if m := minutePattern.FindStringSubmatch(label); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err == nil {
			total += minutes
			found = true
		}
	}
	return total, found
}
