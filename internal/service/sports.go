package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
	"github.com/phillyfan-api/internal/timeutil"
)

// SourceError records a single upstream source failure inside an otherwise
// successful aggregation response.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Result is the uniform aggregation envelope: partial data plus the errors of
// any sources that failed. A response with every source failed is still a
// Result, never an HTTP error.
type Result[T any] struct {
	Data   []T           `json:"data"`
	Errors []SourceError `json:"errors"`
}

// PhillyTeam describes one of the tracked Philadelphia franchises.
type PhillyTeam struct {
	Sport domain.Sport
	Abbr  string
	Name  string
	Color string
}

// phillyTeams is the fixed set of tracked franchises.
var phillyTeams = []PhillyTeam{
	{Sport: domain.SportNFL, Abbr: "phi", Name: "Philadelphia Eagles", Color: "#004C54"},
	{Sport: domain.SportNBA, Abbr: "phi", Name: "Philadelphia 76ers", Color: "#006BB6"},
	{Sport: domain.SportMLB, Abbr: "phi", Name: "Philadelphia Phillies", Color: "#E81828"},
	{Sport: domain.SportNHL, Abbr: "phi", Name: "Philadelphia Flyers", Color: "#F74902"},
	{Sport: domain.SportMLS, Abbr: "phi", Name: "Philadelphia Union", Color: "#071B2C"},
}

// ScoreboardProvider yields normalized games for a sport and date.
type ScoreboardProvider interface {
	Scoreboard(ctx context.Context, sport domain.Sport, date string) ([]domain.NormalizedGame, error)
	TeamSchedule(ctx context.Context, sport domain.Sport, team string) ([]domain.ScheduleEntry, error)
}

// LeagueDataProvider yields SportsDataIO-backed league data.
type LeagueDataProvider interface {
	Schedules(ctx context.Context, sport domain.Sport, season, team string) ([]domain.NormalizedGame, error)
	Standings(ctx context.Context, sport domain.Sport, season string) ([]domain.StandingsEntry, error)
	GameOdds(ctx context.Context, sport domain.Sport, date string) ([]domain.OddsQuote, error)
	BoxScore(ctx context.Context, sport domain.Sport, date, home, away string) ([]domain.StatLine, error)
	Configured() bool
}

// HighlightProvider searches hosted video highlights.
type HighlightProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Highlight, error)
	Configured() bool
}

// SportsService aggregates upstream provider data across the tracked teams.
type SportsService struct {
	espn   ScoreboardProvider
	league LeagueDataProvider
	video  HighlightProvider
	cfg    *config.LedgerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSportsService creates a new aggregation service.
func NewSportsService(espn ScoreboardProvider, league LeagueDataProvider, video HighlightProvider, cfg *config.LedgerConfig, logger *slog.Logger) *SportsService {
	return &SportsService{
		espn:   espn,
		league: league,
		video:  video,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// fanOut runs one fetch per source concurrently, collecting partial data and
// per-source failures. One failing source never aborts the response.
func fanOut[T any](ctx context.Context, sources []string, fetch func(ctx context.Context, source string) ([]T, error)) Result[T] {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = Result[T]{Data: []T{}, Errors: []SourceError{}}
	)

	for _, source := range sources {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()
			items, err := fetch(ctx, source)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, SourceError{Source: source, Error: err.Error()})
				return
			}
			result.Data = append(result.Data, items...)
		}(source)
	}

	wg.Wait()
	return result
}

// PhillySchedule aggregates the upcoming schedule across every tracked team,
// filtered to future games inside the configured window, sorted
// chronologically and truncated to the response limit.
func (s *SportsService) PhillySchedule(ctx context.Context) Result[domain.ScheduleEntry] {
	teamBySport := make(map[string]PhillyTeam, len(phillyTeams))
	sources := make([]string, 0, len(phillyTeams))
	for _, team := range phillyTeams {
		key := string(team.Sport)
		teamBySport[key] = team
		sources = append(sources, key)
	}

	result := fanOut(ctx, sources, func(ctx context.Context, source string) ([]domain.ScheduleEntry, error) {
		team := teamBySport[source]
		entries, err := s.espn.TeamSchedule(ctx, team.Sport, team.Abbr)
		if err != nil {
			s.logger.Warn("team schedule fetch failed", "sport", source, "error", err)
			return nil, err
		}
		for i := range entries {
			if entries[i].TeamColor == "" {
				entries[i].TeamColor = team.Color
			}
			if entries[i].Team == "" {
				entries[i].Team = team.Name
			}
		}
		return entries, nil
	})

	now := s.now()
	cutoff := now.AddDate(0, 0, s.cfg.ScheduleWindowDays)
	filtered := result.Data[:0]
	for _, entry := range result.Data {
		if entry.Date.After(now) && entry.Date.Before(cutoff) {
			filtered = append(filtered, entry)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Date.Before(filtered[j].Date) })
	if len(filtered) > s.cfg.ScheduleLimit {
		filtered = filtered[:s.cfg.ScheduleLimit]
	}
	result.Data = filtered
	return result
}

// Scores aggregates scoreboards across every tracked sport for a date
// (today in ET when empty), keeping only games involving a tracked team.
func (s *SportsService) Scores(ctx context.Context, date string) Result[domain.NormalizedGame] {
	if date == "" {
		date = timeutil.TodayET(s.now())
	}

	sports := make([]string, 0, len(phillyTeams))
	for _, team := range phillyTeams {
		sports = append(sports, string(team.Sport))
	}

	result := fanOut(ctx, sports, func(ctx context.Context, source string) ([]domain.NormalizedGame, error) {
		games, err := s.espn.Scoreboard(ctx, domain.Sport(source), date)
		if err != nil {
			s.logger.Warn("scoreboard fetch failed", "sport", source, "error", err)
			return nil, err
		}
		philly := games[:0]
		for _, game := range games {
			if isPhillyGame(game) {
				philly = append(philly, game)
			}
		}
		return philly, nil
	})

	sort.Slice(result.Data, func(i, j int) bool {
		return result.Data[i].DateTime.Before(result.Data[j].DateTime)
	})
	return result
}

func isPhillyGame(game domain.NormalizedGame) bool {
	const abbr = "PHI"
	return strings.EqualFold(game.HomeTeam.Abbr, abbr) || strings.EqualFold(game.AwayTeam.Abbr, abbr)
}

// GameDetail merges the scoreboard record for one game with consensus odds
// and box score leaders when the league provider can serve them. Both are
// optional enrichment; their failure is recorded, not fatal.
func (s *SportsService) GameDetail(ctx context.Context, sport domain.Sport, id string) (*domain.NormalizedGame, []SourceError, error) {
	errs := []SourceError{}

	game, err := s.findGame(ctx, sport, id)
	if err != nil {
		return nil, errs, err
	}

	if s.league.Configured() {
		date := timeutil.DateET(game.DateTime)

		quotes, err := s.league.GameOdds(ctx, sport, date)
		if err != nil {
			s.logger.Warn("odds enrichment failed", "sport", sport, "game", id, "error", err)
			errs = append(errs, SourceError{Source: "odds", Error: err.Error()})
		} else {
			// The odds provider keys games by its own IDs, so quotes attach
			// by the team pairing; the fetch is already scoped to the date.
			// The scoreboard's inline quote, when present, stays as fallback.
			for i := range quotes {
				if quoteMatchesGame(quotes[i], game) {
					game.Odds = &quotes[i]
					break
				}
			}
		}

		lines, err := s.league.BoxScore(ctx, sport, date, game.HomeTeam.Abbr, game.AwayTeam.Abbr)
		if err != nil {
			s.logger.Warn("box score enrichment failed", "sport", sport, "game", id, "error", err)
			errs = append(errs, SourceError{Source: "box_score", Error: err.Error()})
		} else if len(lines) > 0 {
			game.BoxScore = lines
		}
	}

	return game, errs, nil
}

func quoteMatchesGame(q domain.OddsQuote, game *domain.NormalizedGame) bool {
	return strings.EqualFold(q.HomeTeam, game.HomeTeam.Abbr) &&
		strings.EqualFold(q.AwayTeam, game.AwayTeam.Abbr)
}

func (s *SportsService) findGame(ctx context.Context, sport domain.Sport, id string) (*domain.NormalizedGame, error) {
	// Search today's board first, then yesterday's for late finals.
	dates := []string{timeutil.TodayET(s.now()), timeutil.YesterdayET(s.now())}
	var lastErr error
	for _, date := range dates {
		games, err := s.espn.Scoreboard(ctx, sport, date)
		if err != nil {
			lastErr = err
			continue
		}
		for i := range games {
			if games[i].ID == id {
				return &games[i], nil
			}
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, domain.ErrGameNotFound
}

// Standings returns ranked standings for one league.
func (s *SportsService) Standings(ctx context.Context, sport domain.Sport, season string) ([]domain.StandingsEntry, error) {
	if season == "" {
		season = currentSeason(sport, s.now())
	}
	return s.league.Standings(ctx, sport, season)
}

// CollegeStandings returns college basketball standings, optionally narrowed
// to the division/conference containing the given team.
func (s *SportsService) CollegeStandings(ctx context.Context, team, season string) ([]domain.StandingsEntry, error) {
	entries, err := s.Standings(ctx, domain.SportNCAAB, season)
	if err != nil {
		return nil, err
	}
	if team == "" {
		return entries, nil
	}

	var division string
	for _, e := range entries {
		if strings.EqualFold(e.Team, team) {
			division = e.Division
			break
		}
	}
	if division == "" {
		return []domain.StandingsEntry{}, nil
	}

	filtered := make([]domain.StandingsEntry, 0)
	for _, e := range entries {
		if e.Division == division {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Odds returns consensus odds quotes for a sport on a date (today ET default).
func (s *SportsService) Odds(ctx context.Context, sport domain.Sport, date string) ([]domain.OddsQuote, error) {
	if date == "" {
		date = timeutil.TodayET(s.now())
	}
	return s.league.GameOdds(ctx, sport, date)
}

// LeagueSchedules returns a season schedule for a sport, optionally filtered
// to one team.
func (s *SportsService) LeagueSchedules(ctx context.Context, sport domain.Sport, season, team string) ([]domain.NormalizedGame, error) {
	if season == "" {
		season = currentSeason(sport, s.now())
	}
	return s.league.Schedules(ctx, sport, season, team)
}

// Highlights searches hosted video highlights. A missing provider key
// surfaces as domain.ErrNotConfigured so clients can fall back.
func (s *SportsService) Highlights(ctx context.Context, query string, limit int) ([]domain.Highlight, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", domain.ErrInvalidRequest)
	}
	if s.video == nil || !s.video.Configured() {
		return nil, domain.ErrNotConfigured
	}
	return s.video.Search(ctx, query, limit)
}

// currentSeason derives the provider season string from the clock. Leagues
// that span the new year are keyed by their starting year.
func currentSeason(sport domain.Sport, now time.Time) string {
	year := now.In(timeutil.Eastern()).Year()
	month := now.In(timeutil.Eastern()).Month()
	switch sport {
	case domain.SportNFL, domain.SportNCAAF:
		if month < time.August {
			year--
		}
	case domain.SportNBA, domain.SportNHL, domain.SportNCAAB:
		if month < time.September {
			year--
		}
	}
	return strconv.Itoa(year)
}
