// Package station canonicalizes free-text station names before they are
// used in provider queries.
package station

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// suffixes stripped from the end of a canonical name. Both the Japanese
// counter and the English word appear in user input.
var suffixes = []string{"駅", "station"}

// Normalize canonicalizes a raw station name: NFKC folding (full-width
// ASCII and the ideographic space included), removal of all whitespace, and
// stripping of trailing station suffixes. It never fails; unusable input
// yields the empty string, which callers must treat as an invalid query.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	// Strip repeatedly so that already-canonical input is a fixed point.
	for {
		stripped := false
		for _, suffix := range suffixes {
			if len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
				s = s[:len(s)-len(suffix)]
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	return s
}
