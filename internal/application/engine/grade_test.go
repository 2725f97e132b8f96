package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/betsim/internal/domain"
)

var testGame = domain.Game{
	ID:       "game-1",
	Sport:    "nba",
	HomeTeam: "Lakers",
	AwayTeam: "Celtics",
}

func spreadBet(selection string, point float64) domain.Bet {
	return domain.Bet{
		GameID:    "game-1",
		Market:    domain.MarketSpread,
		Selection: selection,
		LinePoint: &point,
	}
}

func TestGradeBet_Moneyline(t *testing.T) {
	bet := domain.Bet{Market: domain.MarketMoneyline, Selection: "Lakers"}
	res := domain.GameResult{HomeScore: 110, AwayScore: 100}

	assert.Equal(t, domain.ResultWin, gradeBet(bet, testGame, res))

	bet.Selection = "Celtics"
	assert.Equal(t, domain.ResultLoss, gradeBet(bet, testGame, res))

	tie := domain.GameResult{HomeScore: 100, AwayScore: 100}
	assert.Equal(t, domain.ResultPush, gradeBet(bet, testGame, tie))
}

func TestGradeBet_Spread_HomeCovers(t *testing.T) {
	// Lakers -3.5, win by 10
	res := domain.GameResult{HomeScore: 110, AwayScore: 100}
	assert.Equal(t, domain.ResultWin, gradeBet(spreadBet("Lakers", -3.5), testGame, res))
}

func TestGradeBet_Spread_HomeFailsToCover(t *testing.T) {
	// Lakers -3.5, win by 2
	res := domain.GameResult{HomeScore: 102, AwayScore: 100}
	assert.Equal(t, domain.ResultLoss, gradeBet(spreadBet("Lakers", -3.5), testGame, res))
}

func TestGradeBet_Spread_AwayWithPoints(t *testing.T) {
	// Celtics +3.5 losing by 2 still covers
	res := domain.GameResult{HomeScore: 102, AwayScore: 100}
	assert.Equal(t, domain.ResultWin, gradeBet(spreadBet("Celtics", 3.5), testGame, res))
}

func TestGradeBet_Spread_PushOnWholeNumber(t *testing.T) {
	// Lakers -3 winning by exactly 3
	res := domain.GameResult{HomeScore: 103, AwayScore: 100}
	assert.Equal(t, domain.ResultPush, gradeBet(spreadBet("Lakers", -3), testGame, res))
}

func TestGradeBet_Spread_MissingLine(t *testing.T) {
	bet := domain.Bet{Market: domain.MarketSpread, Selection: "Lakers"}
	res := domain.GameResult{HomeScore: 110, AwayScore: 100}
	assert.Equal(t, domain.ResultPush, gradeBet(bet, testGame, res))
}

func TestGradeBet_Total(t *testing.T) {
	point := 210.5
	over := domain.Bet{Market: domain.MarketTotal, Selection: "over", LinePoint: &point}
	under := domain.Bet{Market: domain.MarketTotal, Selection: "under", LinePoint: &point}

	high := domain.GameResult{HomeScore: 115, AwayScore: 100} // 215
	assert.Equal(t, domain.ResultWin, gradeBet(over, testGame, high))
	assert.Equal(t, domain.ResultLoss, gradeBet(under, testGame, high))

	low := domain.GameResult{HomeScore: 100, AwayScore: 100} // 200
	assert.Equal(t, domain.ResultLoss, gradeBet(over, testGame, low))
	assert.Equal(t, domain.ResultWin, gradeBet(under, testGame, low))
}

func TestGradeBet_Total_PushOnWholeNumber(t *testing.T) {
	point := 215.0
	over := domain.Bet{Market: domain.MarketTotal, Selection: "over", LinePoint: &point}
	res := domain.GameResult{HomeScore: 115, AwayScore: 100}
	assert.Equal(t, domain.ResultPush, gradeBet(over, testGame, res))
}

func TestBetSide(t *testing.T) {
	assert.Equal(t, domain.SideHome, betSide(domain.Bet{Selection: "Lakers"}, testGame))
	assert.Equal(t, domain.SideAway, betSide(domain.Bet{Selection: "Celtics"}, testGame))
	assert.Equal(t, domain.SideOver, betSide(domain.Bet{Selection: "over"}, testGame))
	assert.Equal(t, domain.SideUnder, betSide(domain.Bet{Selection: "under"}, testGame))
}

func TestMatchClosingQuote_PrefersBetBook(t *testing.T) {
	bet := domain.Bet{Selection: "Lakers", Sportsbook: "fanduel"}
	quotes := []domain.OddsQuote{
		{Book: "draftkings", Side: domain.SideHome, Odds: -105},
		{Book: "fanduel", Side: domain.SideHome, Odds: -120},
		{Book: "fanduel", Side: domain.SideAway, Odds: 100},
	}

	got := matchClosingQuote(quotes, bet, testGame)
	assert.NotNil(t, got)
	assert.Equal(t, "fanduel", got.Book)
	assert.Equal(t, -120, got.Odds)
}

func TestMatchClosingQuote_FallsBackToBestPrice(t *testing.T) {
	bet := domain.Bet{Selection: "Lakers", Sportsbook: "caesars"}
	quotes := []domain.OddsQuote{
		{Book: "draftkings", Side: domain.SideHome, Odds: -115},
		{Book: "betmgm", Side: domain.SideHome, Odds: -105},
	}

	got := matchClosingQuote(quotes, bet, testGame)
	assert.NotNil(t, got)
	assert.Equal(t, "betmgm", got.Book)
}

func TestMatchClosingQuote_NoSideQuote(t *testing.T) {
	bet := domain.Bet{Selection: "Lakers", Sportsbook: "fanduel"}
	quotes := []domain.OddsQuote{
		{Book: "draftkings", Side: domain.SideAway, Odds: -110},
	}
	assert.Nil(t, matchClosingQuote(quotes, bet, testGame))
}
