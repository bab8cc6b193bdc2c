package espn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillyfan-api/internal/domain"
)

func eaglesEvent() Event {
	return Event{
		ID:   "401547417",
		Date: Time{time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC)},
		Competitions: []Competition{{
			Venue: Venue{FullName: "Lincoln Financial Field"},
			Broadcasts: []Broadcast{{Names: []string{"FOX"}}},
			Status: Status{Type: StatusType{State: "in"}},
			Competitors: []Competitor{
				{
					HomeAway: "away",
					Team:     Team{Abbreviation: "DAL", DisplayName: "Dallas Cowboys"},
					Score:    Score{Value: 10, OK: true},
					Records:  []Record{{Type: "total", Summary: "3-1"}},
				},
				{
					HomeAway: "home",
					Team:     Team{Abbreviation: "PHI", DisplayName: "Philadelphia Eagles"},
					Score:    Score{Value: 24, OK: true},
					Records:  []Record{{Type: "road", Summary: "1-1"}, {Type: "total", Summary: "4-0"}},
				},
			},
		}},
	}
}

func TestNormalizeEventAssignsSidesByHomeAway(t *testing.T) {
	game, err := NormalizeEvent(domain.SportNFL, eaglesEvent())
	require.NoError(t, err)

	assert.Equal(t, "401547417", game.ID)
	assert.Equal(t, domain.SportNFL, game.Sport)
	assert.Equal(t, domain.StatusInProgress, game.Status)
	assert.Equal(t, "Lincoln Financial Field", game.Venue)
	assert.Equal(t, "FOX", game.Channel)

	assert.Equal(t, "PHI", game.HomeTeam.Abbr)
	assert.Equal(t, 24, game.HomeTeam.Score)
	assert.Equal(t, "4-0", game.HomeTeam.Record)
	assert.Equal(t, "DAL", game.AwayTeam.Abbr)
	assert.Equal(t, 10, game.AwayTeam.Score)
}

func TestNormalizeEventCarriesInlineOdds(t *testing.T) {
	event := eaglesEvent()
	event.Competitions[0].Odds = []EventOdds{{
		Provider:  OddsProvider{Name: "ESPN BET"},
		Details:   "PHI -3.5",
		Spread:    -3.5,
		OverUnder: 47.5,
	}}

	game, err := NormalizeEvent(domain.SportNFL, event)
	require.NoError(t, err)

	require.NotNil(t, game.Odds)
	assert.Equal(t, "ESPN BET", game.Odds.Sportsbook)
	assert.Equal(t, "PHI", game.Odds.HomeTeam)
	assert.Equal(t, "DAL", game.Odds.AwayTeam)
	require.NotNil(t, game.Odds.Spread)
	assert.Equal(t, -3.5, game.Odds.Spread.Home)
	assert.Equal(t, 3.5, game.Odds.Spread.Away)
	require.NotNil(t, game.Odds.Total)
	assert.Equal(t, 47.5, game.Odds.Total.OverUnder)
}

func TestNormalizeEventNoOddsBlock(t *testing.T) {
	game, err := NormalizeEvent(domain.SportNFL, eaglesEvent())
	require.NoError(t, err)
	assert.Nil(t, game.Odds)
}

func TestNormalizeEventFallsBackToEventDate(t *testing.T) {
	event := eaglesEvent()
	event.Competitions[0].Date = Time{}

	game, err := NormalizeEvent(domain.SportNFL, event)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC), game.DateTime)
}

func TestNormalizeEventMissingCompetitors(t *testing.T) {
	_, err := NormalizeEvent(domain.SportNFL, Event{ID: "x"})
	assert.ErrorIs(t, err, errMalformedEvent)
}

func TestStatusForPostStates(t *testing.T) {
	assert.Equal(t, domain.StatusFinal, statusFor(Status{Type: StatusType{State: "post", Name: "STATUS_FINAL"}}))
	assert.Equal(t, domain.StatusPostponed, statusFor(Status{Type: StatusType{State: "post", Name: "STATUS_POSTPONED"}}))
	assert.Equal(t, domain.StatusCanceled, statusFor(Status{Type: StatusType{State: "post", Name: "STATUS_CANCELED"}}))
	assert.Equal(t, domain.StatusScheduled, statusFor(Status{Type: StatusType{State: "pre"}}))
	assert.Equal(t, domain.StatusScheduled, statusFor(Status{}))
}

func TestNormalizeScheduleEventPerspective(t *testing.T) {
	phillies := Team{ID: "22", Abbreviation: "PHI", DisplayName: "Philadelphia Phillies", Color: "E81828"}
	event := Event{
		ID:   "401581234",
		Date: Time{time.Date(2025, 7, 4, 23, 5, 0, 0, time.UTC)},
		Competitions: []Competition{{
			Venue: Venue{FullName: "Citizens Bank Park"},
			Competitors: []Competitor{
				{HomeAway: "home", Team: phillies},
				{HomeAway: "away", Team: Team{ID: "15", Abbreviation: "ATL", DisplayName: "Atlanta Braves"}},
			},
		}},
	}

	entry, err := NormalizeScheduleEvent(domain.SportMLB, phillies, event)
	require.NoError(t, err)
	assert.Equal(t, "Philadelphia Phillies", entry.Team)
	assert.Equal(t, "Atlanta Braves", entry.Opponent)
	assert.True(t, entry.IsHome)
	assert.Equal(t, "Citizens Bank Park", entry.Venue)
}
