// Package timeutil provides Eastern Time date helpers. ET is the canonical
// display timezone for all game times regardless of viewer locale.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Fall back to a fixed EST offset if tzdata is unavailable.
		loc = time.FixedZone("EST", -5*60*60)
	}
	eastern = loc
}

// Eastern returns the US Eastern location.
func Eastern() *time.Location {
	return eastern
}

// DateET formats a time as YYYY-MM-DD in Eastern Time.
func DateET(t time.Time) string {
	return t.In(eastern).Format(DateLayout)
}

// TodayET returns today's date string in Eastern Time.
func TodayET(now time.Time) string {
	return DateET(now)
}

// YesterdayET returns yesterday's date string in Eastern Time.
func YesterdayET(now time.Time) string {
	return DateET(now.AddDate(0, 0, -1))
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, eastern)
}

// RelativeTime renders t relative to now for display ("just now", "3h ago",
// "in 2d"). Zero times render as an empty string rather than a bogus span.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	past := d >= 0
	if !past {
		d = -d
	}

	var span string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		span = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		span = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		span = fmt.Sprintf("%dd", int(d.Hours()/24))
	}

	if past {
		return span + " ago"
	}
	return "in " + span
}
