package sportsdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phillyfan-api/internal/domain"
)

// BoxScore fetches the date's box scores and returns the stat leaders for the
// game between the two team abbreviations. A date with no matching game
// yields an empty slice, not an error.
func (c *Client) BoxScore(ctx context.Context, sport domain.Sport, date, home, away string) ([]domain.StatLine, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/stats/json/BoxScoresByDate/%s", c.baseURL, path, date)

	var payload []apiBoxScore
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	for _, box := range payload {
		if strings.EqualFold(box.Game.HomeTeam, home) && strings.EqualFold(box.Game.AwayTeam, away) {
			return statLeaders(box.PlayerGames), nil
		}
	}
	return []domain.StatLine{}, nil
}

// statCategories is the fixed set of per-team leader columns.
var statCategories = []struct {
	name  string
	value func(apiBoxScoreStat) float64
}{
	{"points", func(p apiBoxScoreStat) float64 { return p.Points }},
	{"rebounds", func(p apiBoxScoreStat) float64 { return p.Rebounds }},
	{"assists", func(p apiBoxScoreStat) float64 { return p.Assists }},
}

// statLeaders reduces a full player box score to each team's category
// leaders, in the order teams first appear in the payload.
func statLeaders(players []apiBoxScoreStat) []domain.StatLine {
	teams := make([]string, 0, 2)
	seen := make(map[string]bool, 2)
	for _, p := range players {
		if !seen[p.Team] {
			seen[p.Team] = true
			teams = append(teams, p.Team)
		}
	}

	lines := make([]domain.StatLine, 0, len(teams)*len(statCategories))
	for _, team := range teams {
		for _, cat := range statCategories {
			var leader *apiBoxScoreStat
			for i := range players {
				p := &players[i]
				if p.Team != team {
					continue
				}
				if leader == nil || cat.value(*p) > cat.value(*leader) {
					leader = p
				}
			}
			if leader == nil || cat.value(*leader) == 0 {
				continue
			}
			lines = append(lines, domain.StatLine{
				Name:  leader.Name,
				Stat:  team + " " + cat.name,
				Value: strconv.FormatFloat(cat.value(*leader), 'f', -1, 64),
			})
		}
	}
	return lines
}
