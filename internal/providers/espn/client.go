// Package espn fetches scoreboards and team schedules from the ESPN site API
// and maps the per-league response shapes to the canonical domain records.
package espn

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

// leaguePaths maps a supported sport to its ESPN site API path segment.
var leaguePaths = map[domain.Sport]string{
	domain.SportNFL:   "football/nfl",
	domain.SportNBA:   "basketball/nba",
	domain.SportMLB:   "baseball/mlb",
	domain.SportNHL:   "hockey/nhl",
	domain.SportNCAAB: "basketball/mens-college-basketball",
	domain.SportNCAAF: "football/college-football",
	domain.SportMLS:   "soccer/usa.1",
}

// Config controls how the ESPN client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches games from the ESPN site API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an ESPN client with the provided configuration.
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
		httpClient: httpClient,
	}
}

// Scoreboard fetches all games for a sport on a given date (YYYYMMDD, ET).
func (c *Client) Scoreboard(ctx context.Context, sport domain.Sport, date string) ([]domain.NormalizedGame, error) {
	path, ok := leaguePaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, path)
	if date != "" {
		url += "?dates=" + strings.ReplaceAll(date, "-", "")
	}

	var payload scoreboardResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	games := make([]domain.NormalizedGame, 0, len(payload.Events))
	for _, event := range payload.Events {
		game, err := NormalizeEvent(sport, event)
		if err != nil {
			continue // skip malformed events rather than failing the feed
		}
		games = append(games, game)
	}
	return games, nil
}

// TeamSchedule fetches a team's schedule feed.
func (c *Client) TeamSchedule(ctx context.Context, sport domain.Sport, team string) ([]domain.ScheduleEntry, error) {
	path, ok := leaguePaths[sport]
	if !ok {
		return nil, domain.NewUnsupportedSportError(string(sport))
	}

	url := fmt.Sprintf("%s/%s/teams/%s/schedule", c.baseURL, path, team)

	var payload scheduleResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	entries := make([]domain.ScheduleEntry, 0, len(payload.Events))
	for _, event := range payload.Events {
		entry, err := NormalizeScheduleEvent(sport, payload.Team, event)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("espn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return &domain.UpstreamError{Provider: "espn", Status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
