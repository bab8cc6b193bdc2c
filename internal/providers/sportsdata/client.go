// Package sportsdata fetches schedules, standings and odds from SportsDataIO.
// Every call fails closed with ErrMissingAPIKey when no key is configured.
package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phillyfan-api/internal/domain"
)

// sportPaths maps a supported sport to its SportsDataIO path segment.
var sportPaths = map[domain.Sport]string{
	domain.SportNFL:   "nfl",
	domain.SportNBA:   "nba",
	domain.SportMLB:   "mlb",
	domain.SportNHL:   "nhl",
	domain.SportNCAAB: "cbb",
	domain.SportNCAAF: "cfb",
}

// Config controls how the SportsDataIO client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches league data from SportsDataIO.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a SportsDataIO client with the provided configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Schedules fetches a season schedule for a sport, optionally filtered to one
// team abbreviation.
func (c *Client) Schedules(ctx context.Context, sport domain.Sport, season, team string) ([]domain.NormalizedGame, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/scores/json/Games/%s", c.baseURL, path, season)

	var payload []apiGame
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	games := make([]domain.NormalizedGame, 0, len(payload))
	for _, g := range payload {
		if team != "" && !strings.EqualFold(g.HomeTeam, team) && !strings.EqualFold(g.AwayTeam, team) {
			continue
		}
		games = append(games, normalizeGame(sport, g))
	}
	return games, nil
}

// Standings fetches season standings, grouped and ranked by division.
func (c *Client) Standings(ctx context.Context, sport domain.Sport, season string) ([]domain.StandingsEntry, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/scores/json/Standings/%s", c.baseURL, path, season)

	var payload []apiStanding
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return RankStandings(normalizeStandings(payload)), nil
}

// GameOdds fetches odds for all of a sport's games on a date and reduces each
// game's sportsbook list to a single consensus quote.
func (c *Client) GameOdds(ctx context.Context, sport domain.Sport, date string) ([]domain.OddsQuote, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/odds/json/GameOddsByDate/%s", c.baseURL, path, date)

	var payload []apiGameOdds
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	quotes := make([]domain.OddsQuote, 0, len(payload))
	for _, g := range payload {
		if quote, ok := ConsensusQuote(g); ok {
			quotes = append(quotes, quote)
		}
	}
	return quotes, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if c.apiKey == "" {
		return domain.ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sportsdata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return &domain.UpstreamError{Provider: "sportsdata", Status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// normalizeGame maps a provider game row to the canonical shape. Score and
// venue fields differ per league; alternates are consulted in a fixed order.
func normalizeGame(sport domain.Sport, g apiGame) domain.NormalizedGame {
	game := domain.NormalizedGame{
		ID:      gameID(g),
		Sport:   sport,
		Status:  statusFor(g.Status),
		Channel: g.Channel,
		Venue:   venueFor(g),
		HomeTeam: domain.TeamSide{
			Abbr:  g.HomeTeam,
			Score: scoreFor(g.HomeScore, g.HomeRuns),
		},
		AwayTeam: domain.TeamSide{
			Abbr:  g.AwayTeam,
			Score: scoreFor(g.AwayScore, g.AwayRuns),
		},
	}

	// DateTime is local ET without a zone suffix; Day is a fallback.
	for _, candidate := range []string{g.DateTime, g.Day} {
		if candidate == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02T15:04:05", candidate); err == nil {
			game.DateTime = t
			break
		}
		if t, err := time.Parse(time.RFC3339, candidate); err == nil {
			game.DateTime = t
			break
		}
	}

	return game
}

func gameID(g apiGame) string {
	if g.GameKey != "" {
		return g.GameKey
	}
	return fmt.Sprintf("%d", g.GameID)
}

// scoreFor returns the first present score alternate (score column for most
// leagues, runs column for MLB).
func scoreFor(alternates ...*int) int {
	for _, v := range alternates {
		if v != nil {
			return *v
		}
	}
	return 0
}

func venueFor(g apiGame) string {
	if g.StadiumName != "" {
		return g.StadiumName
	}
	if g.Stadium != nil {
		return g.Stadium.Name
	}
	return ""
}

func statusFor(s string) domain.GameStatus {
	switch s {
	case "Final", "F/OT", "F/SO":
		return domain.StatusFinal
	case "InProgress":
		return domain.StatusInProgress
	case "Postponed":
		return domain.StatusPostponed
	case "Canceled":
		return domain.StatusCanceled
	default:
		return domain.StatusScheduled
	}
}
