package arb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/betsim/internal/application/arb"
	"github.com/alejandrodnm/betsim/internal/domain"
)

func mlQuote(book string, side domain.Side, odds int) domain.OddsQuote {
	return domain.OddsQuote{
		Book:   book,
		GameID: "game-1",
		Market: domain.MarketMoneyline,
		Side:   side,
		Odds:   odds,
	}
}

func spreadQuote(book string, side domain.Side, odds int, point float64) domain.OddsQuote {
	q := mlQuote(book, side, odds)
	q.Market = domain.MarketSpread
	q.LinePoint = &point
	return q
}

func TestScan_FindsMoneylineArbitrage(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 120),
		mlQuote("fanduel", domain.SideAway, 120),
		mlQuote("betmgm", domain.SideHome, -110),
	}

	opps := d.Scan("game-1", domain.MarketMoneyline, quotes)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.InDelta(t, 0.0909, opp.ProfitMargin, 0.0001)
	require.Len(t, opp.Legs, 2)
	assert.Equal(t, "draftkings", opp.Legs[0].Book)
	assert.Equal(t, "fanduel", opp.Legs[1].Book)
	// unsized until the caller decides the bankroll fraction
	assert.Equal(t, 0.0, opp.TotalStake)
}

func TestScan_NoArbitrageWithVig(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, -110),
		mlQuote("fanduel", domain.SideAway, -110),
	}
	assert.Empty(t, d.Scan("game-1", domain.MarketMoneyline, quotes))
}

func TestScan_RejectsSameBook(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 120),
		mlQuote("draftkings", domain.SideAway, 120),
		mlQuote("fanduel", domain.SideAway, -200),
	}
	// best price on both sides comes from draftkings
	assert.Empty(t, d.Scan("game-1", domain.MarketMoneyline, quotes))
}

func TestScan_SkipsSingleBook(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 120),
		mlQuote("draftkings", domain.SideAway, 120),
	}
	assert.Empty(t, d.Scan("game-1", domain.MarketMoneyline, quotes))
}

func TestScan_SkipsMissingSide(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 120),
		mlQuote("fanduel", domain.SideHome, 130),
	}
	assert.Empty(t, d.Scan("game-1", domain.MarketMoneyline, quotes))
}

func TestScan_BelowMinMargin(t *testing.T) {
	// +102/+102 yields ~1% margin; a 2% floor filters it
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 102),
		mlQuote("fanduel", domain.SideAway, 102),
	}
	assert.Empty(t, arb.New(0.02).Scan("game-1", domain.MarketMoneyline, quotes))
	assert.Len(t, arb.New(0.005).Scan("game-1", domain.MarketMoneyline, quotes), 1)
}

func TestScan_IgnoresZeroOdds(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 120),
		mlQuote("fanduel", domain.SideAway, 0),
	}
	assert.Empty(t, d.Scan("game-1", domain.MarketMoneyline, quotes))
}

func TestScan_SpreadGroupsMirroredPoints(t *testing.T) {
	d := arb.New(0.01)
	// home -3.5 and away +3.5 are the same market seen from each side
	quotes := []domain.OddsQuote{
		spreadQuote("draftkings", domain.SideHome, 120, -3.5),
		spreadQuote("fanduel", domain.SideAway, 120, 3.5),
	}

	opps := d.Scan("game-1", domain.MarketSpread, quotes)
	require.Len(t, opps, 1)
	require.NotNil(t, opps[0].LinePoint)
	assert.InDelta(t, -3.5, *opps[0].LinePoint, 0.001)
}

func TestScan_SpreadSeparatesDifferentPoints(t *testing.T) {
	d := arb.New(0.01)
	// -3.5 and -4.5 never pair up even at arbitrage prices
	quotes := []domain.OddsQuote{
		spreadQuote("draftkings", domain.SideHome, 120, -3.5),
		spreadQuote("fanduel", domain.SideAway, 120, 4.5),
	}
	assert.Empty(t, d.Scan("game-1", domain.MarketSpread, quotes))
}

func TestScan_SortsByMarginDescending(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		spreadQuote("draftkings", domain.SideHome, 110, -3.5),
		spreadQuote("fanduel", domain.SideAway, 110, 3.5),
		spreadQuote("betmgm", domain.SideHome, 130, -4.5),
		spreadQuote("caesars", domain.SideAway, 130, 4.5),
	}

	opps := d.Scan("game-1", domain.MarketSpread, quotes)
	require.Len(t, opps, 2)
	assert.Greater(t, opps[0].ProfitMargin, opps[1].ProfitMargin)
}

func TestScan_PicksBestPricePerSide(t *testing.T) {
	d := arb.New(0.01)
	quotes := []domain.OddsQuote{
		mlQuote("draftkings", domain.SideHome, 105),
		mlQuote("betmgm", domain.SideHome, 125),
		mlQuote("fanduel", domain.SideAway, 115),
		mlQuote("caesars", domain.SideAway, -105),
	}

	opps := d.Scan("game-1", domain.MarketMoneyline, quotes)
	require.Len(t, opps, 1)
	assert.Equal(t, 125, opps[0].Legs[0].Odds)
	assert.Equal(t, "betmgm", opps[0].Legs[0].Book)
	assert.Equal(t, 115, opps[0].Legs[1].Odds)
	assert.Equal(t, "fanduel", opps[0].Legs[1].Book)
}
