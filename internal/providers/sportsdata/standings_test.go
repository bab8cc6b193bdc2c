package sportsdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillyfan-api/internal/domain"
)

func TestRankStandingsContiguousPerDivision(t *testing.T) {
	entries := []domain.StandingsEntry{
		{Team: "Dallas Cowboys", Division: "NFC East", Wins: 10, Losses: 4, WinPct: 0.714},
		{Team: "Philadelphia Eagles", Division: "NFC East", Wins: 12, Losses: 2, WinPct: 0.857},
		{Team: "Buffalo Bills", Division: "AFC East", Wins: 11, Losses: 3, WinPct: 0.786},
		{Team: "New York Giants", Division: "NFC East", Wins: 5, Losses: 9, WinPct: 0.357},
		{Team: "Miami Dolphins", Division: "AFC East", Wins: 8, Losses: 6, WinPct: 0.571},
	}

	ranked := RankStandings(entries)
	require.Len(t, ranked, 5)

	// Divisions come out in name order, each ranked 1..N.
	assert.Equal(t, "Buffalo Bills", ranked[0].Team)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "Miami Dolphins", ranked[1].Team)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, "Philadelphia Eagles", ranked[2].Team)
	assert.Equal(t, 1, ranked[2].Rank)
	assert.Equal(t, "Dallas Cowboys", ranked[3].Team)
	assert.Equal(t, 2, ranked[3].Rank)
	assert.Equal(t, "New York Giants", ranked[4].Team)
	assert.Equal(t, 3, ranked[4].Rank)
}

func TestRankStandingsTieBrokenByWinPct(t *testing.T) {
	entries := []domain.StandingsEntry{
		{Team: "A", Division: "NL East", Wins: 90, Losses: 72, WinPct: 0.556},
		{Team: "B", Division: "NL East", Wins: 90, Losses: 70, WinPct: 0.563},
	}

	ranked := RankStandings(entries)
	assert.Equal(t, "B", ranked[0].Team)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "A", ranked[1].Team)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestNormalizeStandingsNameAndDivisionAlternates(t *testing.T) {
	pct := 0.857
	rows := []apiStanding{
		{City: "Philadelphia", Name: "Eagles", Conference: "NFC", Division: "East", Wins: 12, Losses: 2, Percentage: &pct},
		{Team: "Flyers", Division: "Metropolitan", Wins: 40, Losses: 30, Ties: 12},
		{Key: "PHI"},
	}

	entries := normalizeStandings(rows)
	require.Len(t, entries, 3)

	assert.Equal(t, "Philadelphia Eagles", entries[0].Team)
	assert.Equal(t, "NFC East", entries[0].Division)
	assert.Equal(t, 0.857, entries[0].WinPct)

	assert.Equal(t, "Flyers", entries[1].Team)
	assert.Equal(t, "Metropolitan", entries[1].Division)
	// computed from the record when the provider omits a percentage
	assert.InDelta(t, float64(40)/82, entries[1].WinPct, 1e-9)

	assert.Equal(t, "PHI", entries[2].Team)
	assert.Equal(t, float64(0), entries[2].WinPct)
}
