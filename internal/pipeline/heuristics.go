package pipeline

import (
	"regexp"
	"strings"
	"time"
)

var tickerRe = regexp.MustCompile(`\(([A-Z]{1,5})\)`)

// ExtractTicker pulls a parenthesized stock ticker out of an event title,
// e.g. "Tesla (TSLA) weekly close" yields "TSLA". Empty when absent.
func ExtractTicker(title string) string {
	m := tickerRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1]
}

var sportsKeywords = []string{
	"vs", "nba", "nfl", "mlb", "nhl", "ufc", "game", "match",
	"bulls", "lakers", "celtics", "warriors", "pacers", "cavaliers",
	"hawks", "heat", "knicks", "nets", "sixers", "raptors",
	"super bowl", "championship", "playoff", "finals",
}

// IsSportsEvent reports whether a title looks like a sports event.
func IsSportsEvent(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range sportsKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var wordRe = regexp.MustCompile(`[A-Za-z]{3,}`)

var keywordSkip = map[string]bool{
	"will": true, "the": true, "and": true, "for": true, "that": true,
	"this": true, "are": true, "was": true, "above": true, "below": true,
	"close": true,
}

// SearchKeywords derives up to five search keywords from an event title,
// with the ticker (when present) prepended as the strongest signal.
func SearchKeywords(title, ticker string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(title, -1) {
		if keywordSkip[strings.ToLower(w)] {
			continue
		}
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	if ticker != "" {
		out = append([]string{ticker}, out...)
	}
	return out
}

// NormalizeSlug accepts either a bare event slug or a full polymarket.com
// event URL and returns the slug, with any query string stripped.
func NormalizeSlug(raw string) string {
	if !strings.Contains(raw, "polymarket.com") {
		return raw
	}
	parts := strings.Split(raw, "/")
	for i, p := range parts {
		if p == "event" && i+1 < len(parts) {
			slug, _, _ := strings.Cut(parts[i+1], "?")
			return slug
		}
	}
	return raw
}

// DaysToExpiry converts an event end time into fractional days from now,
// floored at 0.01 so expired events stay numerically valid. A missing end
// date defaults to a week out.
func DaysToExpiry(end *time.Time, now time.Time) float64 {
	if end == nil {
		return 7
	}
	days := end.Sub(now).Seconds() / 86400
	if days < 0.01 {
		return 0.01
	}
	return days
}
