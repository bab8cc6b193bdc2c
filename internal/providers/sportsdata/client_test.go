package sportsdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillyfan-api/internal/domain"
)

func TestClientFailsClosedWithoutKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused"})
	assert.False(t, client.Configured())

	_, err := client.Standings(context.Background(), domain.SportNFL, "2025")
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestClientSendsSubscriptionKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "/nba/scores/json/Standings/2025", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	standings, err := client.Standings(context.Background(), domain.SportNBA, "2025")
	require.NoError(t, err)
	assert.Empty(t, standings)
}

func TestSchedulesFiltersByTeam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"GameID": 1, "HomeTeam": "PHI", "AwayTeam": "DAL", "Status": "Scheduled", "DateTime": "2025-10-05T13:00:00"},
			{"GameID": 2, "HomeTeam": "NYG", "AwayTeam": "WAS", "Status": "Scheduled", "DateTime": "2025-10-05T13:00:00"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	games, err := client.Schedules(context.Background(), domain.SportNFL, "2025", "phi")
	require.NoError(t, err)

	require.Len(t, games, 1)
	assert.Equal(t, "PHI", games[0].HomeTeam.Abbr)
}

func TestClientUnsupportedSport(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused", APIKey: "secret"})
	_, err := client.GameOdds(context.Background(), domain.Sport("mls"), "2025-10-05")

	var unsupported *domain.UnsupportedSportError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "mls")
}
