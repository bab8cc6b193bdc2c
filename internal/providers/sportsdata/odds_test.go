package sportsdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(f float64) *float64 { return &f }
func ptrI(n int) *int         { return &n }

func TestConsensusQuotePrefersConsensusBook(t *testing.T) {
	game := apiGameOdds{
		GameID:   18711,
		HomeTeam: "PHI",
		AwayTeam: "DAL",
		PregameOdds: []apiBookOdd{
			{Sportsbook: "FanDuel", HomeMoneyLine: ptrI(-150), AwayMoneyLine: ptrI(130)},
			{Sportsbook: "Consensus", HomeMoneyLine: ptrI(-145), AwayMoneyLine: ptrI(125)},
			{Sportsbook: "DraftKings", HomeMoneyLine: ptrI(-155), AwayMoneyLine: ptrI(135)},
		},
	}

	quote, ok := ConsensusQuote(game)
	require.True(t, ok)
	assert.Equal(t, "Consensus", quote.Sportsbook)
	assert.Equal(t, -145, quote.Moneyline.Home)
	assert.Equal(t, "PHI", quote.HomeTeam)
	assert.Equal(t, "DAL", quote.AwayTeam)
	assert.ElementsMatch(t, []string{"FanDuel", "Consensus", "DraftKings"}, quote.Sportsbooks)
}

func TestConsensusQuoteBookOrderDoesNotMatter(t *testing.T) {
	books := []apiBookOdd{
		{Sportsbook: "DraftKings", HomeMoneyLine: ptrI(-155), AwayMoneyLine: ptrI(135)},
		{Sportsbook: "FanDuel", HomeMoneyLine: ptrI(-150), AwayMoneyLine: ptrI(130)},
	}
	reversed := []apiBookOdd{books[1], books[0]}

	a, ok := ConsensusQuote(apiGameOdds{GameID: 1, PregameOdds: books})
	require.True(t, ok)
	b, ok := ConsensusQuote(apiGameOdds{GameID: 1, PregameOdds: reversed})
	require.True(t, ok)

	assert.Equal(t, "DraftKings", a.Sportsbook)
	assert.Equal(t, a.Sportsbook, b.Sportsbook)
	assert.Equal(t, a.Moneyline, b.Moneyline)
}

func TestConsensusQuoteFallsBackToFirstBook(t *testing.T) {
	game := apiGameOdds{
		GameID: 42,
		PregameOdds: []apiBookOdd{
			{Sportsbook: "Caesars", OverUnder: ptrF(47.5), OverPayout: ptrI(-110), UnderPayout: ptrI(-110)},
			{Sportsbook: "BetMGM"},
		},
	}

	quote, ok := ConsensusQuote(game)
	require.True(t, ok)
	assert.Equal(t, "Caesars", quote.Sportsbook)
	require.NotNil(t, quote.Total)
	assert.Equal(t, 47.5, quote.Total.OverUnder)
}

func TestConsensusQuotePrefersLiveOdds(t *testing.T) {
	game := apiGameOdds{
		GameID: 7,
		PregameOdds: []apiBookOdd{
			{Sportsbook: "Consensus", HomePointSpread: ptrF(-3), AwayPointSpread: ptrF(3)},
		},
		LiveOdds: []apiBookOdd{
			{Sportsbook: "DraftKings", HomePointSpread: ptrF(-6.5), AwayPointSpread: ptrF(6.5)},
		},
	}

	quote, ok := ConsensusQuote(game)
	require.True(t, ok)
	assert.True(t, quote.Live)
	assert.Equal(t, "DraftKings", quote.Sportsbook)
	require.NotNil(t, quote.Spread)
	assert.Equal(t, -6.5, quote.Spread.Home)
}

func TestConsensusQuoteNoBooks(t *testing.T) {
	_, ok := ConsensusQuote(apiGameOdds{GameID: 9})
	assert.False(t, ok)
}
