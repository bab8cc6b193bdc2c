package domain

import "time"

// Sport identifies a supported league.
type Sport string

const (
	SportNFL   Sport = "nfl"
	SportNBA   Sport = "nba"
	SportMLB   Sport = "mlb"
	SportNHL   Sport = "nhl"
	SportNCAAB Sport = "ncaab"
	SportNCAAF Sport = "ncaaf"
	SportMLS   Sport = "mls"
)

// ParseSport validates a sport query parameter against the supported set.
func ParseSport(s string) (Sport, error) {
	switch Sport(s) {
	case SportNFL, SportNBA, SportMLB, SportNHL, SportNCAAB, SportNCAAF, SportMLS:
		return Sport(s), nil
	default:
		return "", NewUnsupportedSportError(s)
	}
}

// GameStatus represents the lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusFinal      GameStatus = "final"
	StatusPostponed  GameStatus = "postponed"
	StatusCanceled   GameStatus = "canceled"
)

// TeamSide is one side of a normalized game.
type TeamSide struct {
	Abbr    string `json:"abbr"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Record  string `json:"record,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// NormalizedGame is the canonical game shape exposed by the API regardless of
// which provider or league it came from.
type NormalizedGame struct {
	ID       string      `json:"id"`
	Sport    Sport       `json:"sport"`
	Status   GameStatus  `json:"status"`
	DateTime time.Time   `json:"date_time"`
	Venue    string      `json:"venue,omitempty"`
	Channel  string      `json:"channel,omitempty"`
	HomeTeam TeamSide    `json:"home_team"`
	AwayTeam TeamSide    `json:"away_team"`
	Odds     *OddsQuote  `json:"odds,omitempty"`
	BoxScore []StatLine  `json:"box_score,omitempty"`
}

// StatLine is a single box-score row for a player or team.
type StatLine struct {
	Name  string `json:"name"`
	Stat  string `json:"stat"`
	Value string `json:"value"`
}

// ScheduleEntry is a future game from a team's schedule feed.
type ScheduleEntry struct {
	Sport     Sport     `json:"sport"`
	Team      string    `json:"team"`
	TeamColor string    `json:"team_color,omitempty"`
	Opponent  string    `json:"opponent"`
	IsHome    bool      `json:"is_home"`
	Date      time.Time `json:"date"`
	Venue     string    `json:"venue,omitempty"`
	Broadcast string    `json:"broadcast,omitempty"`
}

// SpreadQuote is a point-spread line for both sides.
type SpreadQuote struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
	Odds int     `json:"odds,omitempty"`
}

// MoneylineQuote is a moneyline pair.
type MoneylineQuote struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// TotalQuote is an over/under line.
type TotalQuote struct {
	OverUnder float64 `json:"over_under"`
	OverOdds  int     `json:"over_odds,omitempty"`
	UnderOdds int     `json:"under_odds,omitempty"`
}

// OddsQuote is a single representative bookmaker quote for a game. GameID is
// the quoting provider's own identifier; consumers correlate quotes to games
// by the team pairing instead.
type OddsQuote struct {
	GameID      string          `json:"game_id"`
	HomeTeam    string          `json:"home_team,omitempty"`
	AwayTeam    string          `json:"away_team,omitempty"`
	Sportsbook  string          `json:"sportsbook,omitempty"`
	Spread      *SpreadQuote    `json:"spread,omitempty"`
	Moneyline   *MoneylineQuote `json:"moneyline,omitempty"`
	Total       *TotalQuote     `json:"total,omitempty"`
	Live        bool            `json:"live,omitempty"`
	Sportsbooks []string        `json:"sportsbooks,omitempty"`
}

// StandingsEntry is one team's row within a division or conference grouping.
type StandingsEntry struct {
	Team     string  `json:"team"`
	Division string  `json:"division"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Ties     int     `json:"ties,omitempty"`
	WinPct   float64 `json:"win_pct"`
	GamesBack float64 `json:"games_back,omitempty"`
	Streak   string  `json:"streak,omitempty"`
	Rank     int     `json:"rank"`
}

// ScoreUpdate is a live score change broadcast to subscribed clients.
type ScoreUpdate struct {
	GameID    string     `json:"game_id"`
	Sport     Sport      `json:"sport"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	HomeScore int        `json:"home_score"`
	AwayScore int        `json:"away_score"`
	Status    GameStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// Photo is a searchable content item for the photo gallery.
type Photo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Team      string    `json:"team,omitempty"`
	Keywords  string    `json:"keywords,omitempty"`
	URL       string    `json:"url"`
	Relevance int       `json:"relevance,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Highlight is a video search result from the highlights provider.
type Highlight struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
