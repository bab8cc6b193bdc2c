package espn

import (
	"errors"

	"github.com/phillyfan-api/internal/domain"
)

var errMalformedEvent = errors.New("espn: event missing competitors")

// statusFor maps the ESPN status state to the canonical lifecycle state.
func statusFor(s Status) domain.GameStatus {
	switch s.Type.State {
	case "pre":
		return domain.StatusScheduled
	case "in":
		return domain.StatusInProgress
	case "post":
		if s.Type.Name == "STATUS_POSTPONED" {
			return domain.StatusPostponed
		}
		if s.Type.Name == "STATUS_CANCELED" {
			return domain.StatusCanceled
		}
		return domain.StatusFinal
	default:
		return domain.StatusScheduled
	}
}

// overallRecord picks the competitor's overall record; falls back to the
// first record listed when no "total" entry is present.
func overallRecord(records []Record) string {
	for _, r := range records {
		if r.Type == "total" {
			return r.Summary
		}
	}
	if len(records) > 0 {
		return records[0].Summary
	}
	return ""
}

func sideFor(c Competitor) domain.TeamSide {
	name := c.Team.DisplayName
	if name == "" {
		name = c.Team.Name
	}
	return domain.TeamSide{
		Abbr:    c.Team.Abbreviation,
		Name:    name,
		Score:   c.Score.Value,
		Record:  overallRecord(c.Records),
		LogoURL: c.Team.Logo,
	}
}

// NormalizeEvent reshapes an ESPN scoreboard event into the canonical game
// record. Events without two competitors are rejected.
func NormalizeEvent(sport domain.Sport, event Event) (domain.NormalizedGame, error) {
	if len(event.Competitions) == 0 || len(event.Competitions[0].Competitors) < 2 {
		return domain.NormalizedGame{}, errMalformedEvent
	}
	comp := event.Competitions[0]

	game := domain.NormalizedGame{
		ID:       event.ID,
		Sport:    sport,
		Status:   statusFor(comp.Status),
		DateTime: comp.Date.Time,
		Venue:    comp.Venue.FullName,
	}
	if game.DateTime.IsZero() {
		game.DateTime = event.Date.Time
	}
	if len(comp.Broadcasts) > 0 && len(comp.Broadcasts[0].Names) > 0 {
		game.Channel = comp.Broadcasts[0].Names[0]
	}

	// ESPN does not guarantee competitor order; assign by homeAway.
	for _, competitor := range comp.Competitors {
		if competitor.HomeAway == "home" {
			game.HomeTeam = sideFor(competitor)
		} else {
			game.AwayTeam = sideFor(competitor)
		}
	}

	game.Odds = inlineOdds(event.ID, game, comp.Odds)

	return game, nil
}

// inlineOdds maps the scoreboard's inline odds block, when present, to the
// canonical quote shape.
func inlineOdds(gameID string, game domain.NormalizedGame, odds []EventOdds) *domain.OddsQuote {
	if len(odds) == 0 {
		return nil
	}
	o := odds[0]
	if o.Spread == 0 && o.OverUnder == 0 {
		return nil
	}

	quote := &domain.OddsQuote{
		GameID:     gameID,
		HomeTeam:   game.HomeTeam.Abbr,
		AwayTeam:   game.AwayTeam.Abbr,
		Sportsbook: o.Provider.Name,
	}
	if o.Spread != 0 {
		quote.Spread = &domain.SpreadQuote{Home: o.Spread, Away: -o.Spread}
	}
	if o.OverUnder != 0 {
		quote.Total = &domain.TotalQuote{OverUnder: o.OverUnder}
	}
	return quote
}

// NormalizeScheduleEvent reshapes a team-schedule event into a ScheduleEntry
// from the perspective of the schedule's team.
func NormalizeScheduleEvent(sport domain.Sport, team Team, event Event) (domain.ScheduleEntry, error) {
	if len(event.Competitions) == 0 || len(event.Competitions[0].Competitors) < 2 {
		return domain.ScheduleEntry{}, errMalformedEvent
	}
	comp := event.Competitions[0]

	entry := domain.ScheduleEntry{
		Sport:     sport,
		Team:      team.DisplayName,
		TeamColor: team.Color,
		Date:      comp.Date.Time,
		Venue:     comp.Venue.FullName,
	}
	if entry.Date.IsZero() {
		entry.Date = event.Date.Time
	}
	if len(comp.Broadcasts) > 0 && len(comp.Broadcasts[0].Names) > 0 {
		entry.Broadcast = comp.Broadcasts[0].Names[0]
	}

	for _, competitor := range comp.Competitors {
		if competitor.Team.ID == team.ID || competitor.Team.Abbreviation == team.Abbreviation {
			entry.IsHome = competitor.HomeAway == "home"
		} else {
			opponent := competitor.Team.DisplayName
			if opponent == "" {
				opponent = competitor.Team.Name
			}
			entry.Opponent = opponent
		}
	}

	return entry, nil
}
