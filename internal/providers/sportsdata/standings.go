package sportsdata

import (
	"sort"

	"github.com/phillyfan-api/internal/domain"
)

func normalizeStandings(rows []apiStanding) []domain.StandingsEntry {
	entries := make([]domain.StandingsEntry, 0, len(rows))
	for _, row := range rows {
		entry := domain.StandingsEntry{
			Team:     teamNameFor(row),
			Division: divisionFor(row),
			Wins:     row.Wins,
			Losses:   row.Losses,
			Ties:     row.Ties,
			WinPct:   winPctFor(row),
			Streak:   streakFor(row),
		}
		if row.GamesBack != nil {
			entry.GamesBack = *row.GamesBack
		}
		entries = append(entries, entry)
	}
	return entries
}

// teamNameFor consults the provider's name alternates in a fixed order.
func teamNameFor(row apiStanding) string {
	if row.City != "" && row.Name != "" {
		return row.City + " " + row.Name
	}
	if row.Name != "" {
		return row.Name
	}
	if row.Team != "" {
		return row.Team
	}
	return row.Key
}

// divisionFor builds the grouping key. SportsDataIO reports division bare
// ("East") with conference separate; the grouping key joins them to match
// division names like "NFC East".
func divisionFor(row apiStanding) string {
	switch {
	case row.Conference != "" && row.Division != "":
		return row.Conference + " " + row.Division
	case row.Division != "":
		return row.Division
	default:
		return row.Conference
	}
}

func winPctFor(row apiStanding) float64 {
	if row.Percentage != nil {
		return *row.Percentage
	}
	if row.WinPct != nil {
		return *row.WinPct
	}
	games := row.Wins + row.Losses + row.Ties
	if games == 0 {
		return 0
	}
	return float64(row.Wins) / float64(games)
}

func streakFor(row apiStanding) string {
	if row.Streak != nil && row.Streak.Description != "" {
		return row.Streak.Description
	}
	return row.StreakDescription
}

// RankStandings sorts entries within each division by wins descending, ties
// broken by win percentage descending, and assigns a contiguous 1..N rank per
// division. The returned slice is ordered by division name, then rank.
func RankStandings(entries []domain.StandingsEntry) []domain.StandingsEntry {
	byDivision := make(map[string][]domain.StandingsEntry)
	divisions := make([]string, 0)
	for _, e := range entries {
		if _, seen := byDivision[e.Division]; !seen {
			divisions = append(divisions, e.Division)
		}
		byDivision[e.Division] = append(byDivision[e.Division], e)
	}
	sort.Strings(divisions)

	ranked := make([]domain.StandingsEntry, 0, len(entries))
	for _, division := range divisions {
		group := byDivision[division]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Wins != group[j].Wins {
				return group[i].Wins > group[j].Wins
			}
			return group[i].WinPct > group[j].WinPct
		})
		for i := range group {
			group[i].Rank = i + 1
		}
		ranked = append(ranked, group...)
	}
	return ranked
}
