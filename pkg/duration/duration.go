// Package duration parses and formats the human readable durations used by
// moderation commands ("1h30m", "2d", "1mo").
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day, Week, Month and Year use fixed lengths: a month is 30 days, a year 365.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

// "mo" must stay ahead of "m" in the alternation.
var tokenPattern = regexp.MustCompile(`(\d+)(y|mo|w|d|h|m|s)`)

var units = map[string]time.Duration{
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  Day,
	"w":  Week,
	"mo": Month,
	"y":  Year,
}

// Parse sums every number+unit token found in text. Text that does not form a
// token is ignored. ok is false when nothing (or only zeros) matched.
func Parse(text string) (d time.Duration, ok bool) {
	matches := tokenPattern.FindAllStringSubmatch(strings.ToLower(text), -1)

	var total time.Duration
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		total += time.Duration(n) * units[m[2]]
	}

	if total <= 0 {
		return 0, false
	}
	return total, true
}

// Format renders d as "1d 2h 3m 4s", skipping zero components.
// Anything under a second renders as "".
func Format(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds <= 0 {
		return ""
	}

	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if h := hours % 24; h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m := minutes % 60; m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s := seconds % 60; s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}

	return strings.Join(parts, " ")
}
