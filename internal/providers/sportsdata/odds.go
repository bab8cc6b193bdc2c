package sportsdata

import (
	"fmt"
	"strings"

	"github.com/phillyfan-api/internal/domain"
)

// bookPriority is the fixed consensus selection order. This is a name-priority
// rule, not a computed consensus: the first book present wins.
var bookPriority = []string{"Consensus", "DraftKings", "FanDuel"}

// ConsensusQuote reduces a game's sportsbook quotes to a single representative
// quote. Priority: "Consensus", then "DraftKings", then "FanDuel", then the
// first book listed. Live odds are preferred over pregame when present.
func ConsensusQuote(g apiGameOdds) (domain.OddsQuote, bool) {
	books := g.PregameOdds
	live := false
	if len(g.LiveOdds) > 0 {
		books = g.LiveOdds
		live = true
	}
	if len(books) == 0 {
		return domain.OddsQuote{}, false
	}

	selected := books[0]
	for _, name := range bookPriority {
		if book, ok := findBook(books, name); ok {
			selected = book
			break
		}
	}

	names := make([]string, 0, len(books))
	for _, b := range books {
		names = append(names, b.Sportsbook)
	}

	quote := domain.OddsQuote{
		GameID:      fmt.Sprintf("%d", g.GameID),
		HomeTeam:    g.HomeTeam,
		AwayTeam:    g.AwayTeam,
		Sportsbook:  selected.Sportsbook,
		Live:        live,
		Sportsbooks: names,
	}

	if selected.HomePointSpread != nil && selected.AwayPointSpread != nil {
		quote.Spread = &domain.SpreadQuote{
			Home: *selected.HomePointSpread,
			Away: *selected.AwayPointSpread,
		}
		if selected.HomeSpreadOdds != nil {
			quote.Spread.Odds = *selected.HomeSpreadOdds
		}
	}
	if selected.HomeMoneyLine != nil && selected.AwayMoneyLine != nil {
		quote.Moneyline = &domain.MoneylineQuote{
			Home: *selected.HomeMoneyLine,
			Away: *selected.AwayMoneyLine,
		}
	}
	if selected.OverUnder != nil {
		quote.Total = &domain.TotalQuote{OverUnder: *selected.OverUnder}
		if selected.OverPayout != nil {
			quote.Total.OverOdds = *selected.OverPayout
		}
		if selected.UnderPayout != nil {
			quote.Total.UnderOdds = *selected.UnderPayout
		}
	}

	return quote, true
}

func findBook(books []apiBookOdd, name string) (apiBookOdd, bool) {
	for _, b := range books {
		if strings.EqualFold(b.Sportsbook, name) {
			return b, true
		}
	}
	return apiBookOdd{}, false
}
