package sportsdata

// Response shapes for the SportsDataIO endpoints this service consumes.
// Field names follow the provider's PascalCase JSON keys.

type apiGame struct {
	GameID      int     `json:"GameID"`
	GameKey     string  `json:"GameKey"`
	Season      int     `json:"Season"`
	DateTime    string  `json:"DateTime"`
	Day         string  `json:"Day"`
	Status      string  `json:"Status"`
	HomeTeam    string  `json:"HomeTeam"`
	AwayTeam    string  `json:"AwayTeam"`
	HomeScore   *int    `json:"HomeTeamScore"`
	AwayScore   *int    `json:"AwayTeamScore"`
	HomeRuns    *int    `json:"HomeTeamRuns"`
	AwayRuns    *int    `json:"AwayTeamRuns"`
	Channel     string  `json:"Channel"`
	StadiumName string  `json:"StadiumName"`
	Stadium     *struct {
		Name string `json:"Name"`
	} `json:"StadiumDetails"`
	PointSpread *float64 `json:"PointSpread"`
	OverUnder   *float64 `json:"OverUnder"`
}

type apiStanding struct {
	Team       string   `json:"Team"`
	Key        string   `json:"Key"`
	Name       string   `json:"Name"`
	City       string   `json:"City"`
	Conference string   `json:"Conference"`
	Division   string   `json:"Division"`
	Wins       int      `json:"Wins"`
	Losses     int      `json:"Losses"`
	Ties       int      `json:"Ties"`
	Percentage *float64 `json:"Percentage"`
	WinPct     *float64 `json:"WinPercentage"`
	GamesBack  *float64 `json:"GamesBehind"`
	Streak     *struct {
		Description string `json:"StreakDescription"`
	} `json:"Streak,omitempty"`
	StreakDescription string `json:"StreakDescription"`
}

type apiGameOdds struct {
	GameID      int          `json:"GameId"`
	ScoreID     int          `json:"ScoreId"`
	HomeTeam    string       `json:"HomeTeamName"`
	AwayTeam    string       `json:"AwayTeamName"`
	PregameOdds []apiBookOdd `json:"PregameOdds"`
	LiveOdds    []apiBookOdd `json:"LiveOdds"`
}

type apiBookOdd struct {
	Sportsbook      string   `json:"Sportsbook"`
	HomePointSpread *float64 `json:"HomePointSpread"`
	AwayPointSpread *float64 `json:"AwayPointSpread"`
	HomeSpreadOdds  *int     `json:"HomePointSpreadPayout"`
	HomeMoneyLine   *int     `json:"HomeMoneyLine"`
	AwayMoneyLine   *int     `json:"AwayMoneyLine"`
	OverUnder       *float64 `json:"OverUnder"`
	OverPayout      *int     `json:"OverPayout"`
	UnderPayout     *int     `json:"UnderPayout"`
}

type apiBoxScore struct {
	Game        apiGame           `json:"Game"`
	PlayerGames []apiBoxScoreStat `json:"PlayerGames"`
}

type apiBoxScoreStat struct {
	Name     string  `json:"Name"`
	Team     string  `json:"Team"`
	Points   float64 `json:"Points"`
	Rebounds float64 `json:"Rebounds"`
	Assists  float64 `json:"Assists"`
}
