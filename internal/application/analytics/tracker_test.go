package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/betsim/internal/application/analytics"
	"github.com/alejandrodnm/betsim/internal/domain"
)

func settledBet(strategy, sport string, stake, profit float64, result domain.Result) domain.Bet {
	return domain.Bet{
		Sport:      sport,
		Strategy:   strategy,
		Stake:      stake,
		Settlement: &domain.Settlement{Result: result, Profit: profit},
	}
}

func TestByStrategy_Aggregates(t *testing.T) {
	bets := []domain.Bet{
		settledBet("arbitrage", "nba", 100, 90, domain.ResultWin),
		settledBet("arbitrage", "nba", 100, -100, domain.ResultLoss),
		settledBet("clv_model", "nfl", 50, 0, domain.ResultPush),
		{Strategy: "arbitrage", Sport: "nba", Stake: 100}, // pending, ignored
	}

	groups := analytics.ByStrategy(bets)
	require.Len(t, groups, 2)

	// sorted by group name
	arb := groups[0]
	assert.Equal(t, "arbitrage", arb.Group)
	assert.Equal(t, 2, arb.TotalBets)
	assert.Equal(t, 1, arb.Wins)
	assert.Equal(t, 1, arb.Losses)
	assert.InDelta(t, 0.5, arb.WinRate, 0.001)
	assert.InDelta(t, 200.0, arb.TotalStaked, 0.001)
	assert.InDelta(t, -10.0, arb.TotalProfit, 0.001)
	assert.InDelta(t, -0.05, arb.ROI, 0.001)

	model := groups[1]
	assert.Equal(t, "clv_model", model.Group)
	assert.Equal(t, 1, model.Pushes)
	assert.Equal(t, 0.0, model.WinRate) // no decided bets
}

func TestBySport(t *testing.T) {
	bets := []domain.Bet{
		settledBet("arbitrage", "nba", 100, 90, domain.ResultWin),
		settledBet("clv_model", "nba", 100, -100, domain.ResultLoss),
		settledBet("arbitrage", "mlb", 100, 50, domain.ResultWin),
	}

	groups := analytics.BySport(bets)
	require.Len(t, groups, 2)
	assert.Equal(t, "mlb", groups[0].Group)
	assert.Equal(t, "nba", groups[1].Group)
	assert.Equal(t, 2, groups[1].TotalBets)
}

func TestMatrix(t *testing.T) {
	bets := []domain.Bet{
		settledBet("arbitrage", "nba", 100, 90, domain.ResultWin),
		settledBet("arbitrage", "nfl", 100, -100, domain.ResultLoss),
		settledBet("clv_model", "nba", 50, 25, domain.ResultWin),
	}

	matrix := analytics.Matrix(bets)
	require.Contains(t, matrix, "arbitrage")
	require.Contains(t, matrix["arbitrage"], "nba")
	assert.InDelta(t, 0.9, matrix["arbitrage"]["nba"].ROI, 0.001)
	assert.InDelta(t, -1.0, matrix["arbitrage"]["nfl"].ROI, 0.001)
	assert.InDelta(t, 0.5, matrix["clv_model"]["nba"].ROI, 0.001)
	assert.NotContains(t, matrix["clv_model"], "nfl")
}

func TestSharpeRatio(t *testing.T) {
	// identical profits: zero variance, sharpe stays 0
	flat := []domain.Bet{
		settledBet("arbitrage", "nba", 100, 10, domain.ResultWin),
		settledBet("arbitrage", "nba", 100, 10, domain.ResultWin),
	}
	groups := analytics.ByStrategy(flat)
	require.Len(t, groups, 1)
	assert.Equal(t, 0.0, groups[0].SharpeRatio)

	// profits +30/+10: mean 20, stddev 10 → sharpe 2
	mixed := []domain.Bet{
		settledBet("clv_model", "nba", 100, 30, domain.ResultWin),
		settledBet("clv_model", "nba", 100, 10, domain.ResultWin),
	}
	groups = analytics.ByStrategy(mixed)
	require.Len(t, groups, 1)
	assert.InDelta(t, 2.0, groups[0].SharpeRatio, 0.001)
}

func TestMaxDrawdown(t *testing.T) {
	// cumulative walk: +100, +50 (peak 150), -120 (30), +40 (70)
	// worst peak-to-trough = 150 - 30 = 120
	bets := []domain.Bet{
		settledBet("arbitrage", "nba", 100, 100, domain.ResultWin),
		settledBet("arbitrage", "nba", 100, 50, domain.ResultWin),
		settledBet("arbitrage", "nba", 100, -120, domain.ResultLoss),
		settledBet("arbitrage", "nba", 100, 40, domain.ResultWin),
	}
	groups := analytics.ByStrategy(bets)
	require.Len(t, groups, 1)
	assert.InDelta(t, 120.0, groups[0].MaxDrawdown, 0.001)
}

func TestByStrategy_EmptyInput(t *testing.T) {
	assert.Empty(t, analytics.ByStrategy(nil))
	assert.Empty(t, analytics.Matrix(nil))
}
