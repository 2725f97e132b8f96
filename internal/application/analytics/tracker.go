package analytics

import (
	"math"
	"sort"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// Analytics aggregates ledger history into reporting views. It is a pure,
// read-only consumer: it never touches the bankroll and works on whatever
// bet slice it is handed.

// ByStrategy computes per-strategy performance over settled bets.
func ByStrategy(bets []domain.Bet) []domain.GroupPerformance {
	return groupBy(bets, func(b domain.Bet) string { return b.Strategy })
}

// BySport computes per-sport performance over settled bets.
func BySport(bets []domain.Bet) []domain.GroupPerformance {
	return groupBy(bets, func(b domain.Bet) string { return b.Sport })
}

// Matrix builds the strategy x sport breakdown over settled bets.
func Matrix(bets []domain.Bet) domain.PerformanceMatrix {
	matrix := make(domain.PerformanceMatrix)
	cells := make(map[string]map[string][]domain.Bet)
	for _, b := range bets {
		if !b.Settled() {
			continue
		}
		if cells[b.Strategy] == nil {
			cells[b.Strategy] = make(map[string][]domain.Bet)
		}
		cells[b.Strategy][b.Sport] = append(cells[b.Strategy][b.Sport], b)
	}
	for strategy, sports := range cells {
		matrix[strategy] = make(map[string]domain.GroupPerformance, len(sports))
		for sport, group := range sports {
			matrix[strategy][sport] = aggregate(sport, group)
		}
	}
	return matrix
}

func groupBy(bets []domain.Bet, key func(domain.Bet) string) []domain.GroupPerformance {
	groups := make(map[string][]domain.Bet)
	for _, b := range bets {
		if b.Settled() {
			k := key(b)
			groups[k] = append(groups[k], b)
		}
	}
	out := make([]domain.GroupPerformance, 0, len(groups))
	for k, group := range groups {
		out = append(out, aggregate(k, group))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// aggregate computes the metrics for one group of settled bets. Bets arrive
// in placement order, which the drawdown walk relies on.
func aggregate(group string, bets []domain.Bet) domain.GroupPerformance {
	perf := domain.GroupPerformance{Group: group}
	profits := make([]float64, 0, len(bets))
	for _, b := range bets {
		perf.TotalBets++
		perf.TotalStaked += b.Stake
		p := b.Settlement.Profit
		perf.TotalProfit += p
		profits = append(profits, p)
		switch b.Settlement.Result {
		case domain.ResultWin:
			perf.Wins++
		case domain.ResultLoss:
			perf.Losses++
		case domain.ResultPush:
			perf.Pushes++
		}
	}
	if decided := perf.Wins + perf.Losses; decided > 0 {
		perf.WinRate = float64(perf.Wins) / float64(decided)
	}
	if perf.TotalStaked > 0 {
		perf.ROI = perf.TotalProfit / perf.TotalStaked
	}
	perf.SharpeRatio = sharpe(profits)
	perf.MaxDrawdown = maxDrawdown(profits)
	return perf
}

// sharpe is the simplified per-bet Sharpe ratio: mean profit over its
// standard deviation. Zero when variance is zero.
func sharpe(profits []float64) float64 {
	if len(profits) < 2 {
		return 0
	}
	mean := 0.0
	for _, p := range profits {
		mean += p
	}
	mean /= float64(len(profits))

	variance := 0.0
	for _, p := range profits {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(profits))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}

// maxDrawdown walks the cumulative profit series and returns the worst
// peak-to-trough decline, as a positive number.
func maxDrawdown(profits []float64) float64 {
	cum, peak, worst := 0.0, 0.0, 0.0
	for _, p := range profits {
		cum += p
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > worst {
			worst = dd
		}
	}
	return worst
}
