package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayETCrossesMidnightUTC(t *testing.T) {
	// 03:00 UTC is still the previous day in Eastern Time.
	now := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-14", TodayET(now))
	assert.Equal(t, "2025-01-13", YesterdayET(now))
}

func TestTodayETAfternoon(t *testing.T) {
	now := time.Date(2025, 7, 4, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-04", TodayET(now))
}

func TestParseDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", DateET(parsed))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-49 * time.Hour), "2d ago"},
		{"future days", now.Add(50 * time.Hour), "in 2d"},
		{"future hours", now.Add(90 * time.Minute), "in 1h"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RelativeTime(tc.t, now))
		})
	}
}
