package risk

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/betsim/internal/domain"
)

const (
	defaultKellyFraction = 0.25
	defaultMaxBetPct     = 0.05
)

// Decision is the governor's verdict on a proposed bet.
type Decision struct {
	Allowed bool
	Reason  string
}

// Governor translates a probabilistic edge into an approved stake and gates
// every proposed bet against systemic limits. It is pure over the bankroll
// snapshots it is handed; peak maintenance lives in the ledger, so all
// bankroll state flows through a single writer.
type Governor struct {
	limits domain.RiskLimits
}

// New creates a governor. A zero or out-of-range KellyFraction falls back to
// quarter Kelly; a zero MaxBetPct falls back to 5% of bankroll.
func New(limits domain.RiskLimits) *Governor {
	if limits.KellyFraction <= 0 || limits.KellyFraction > 1 {
		limits.KellyFraction = defaultKellyFraction
	}
	if limits.MaxBetPct <= 0 {
		limits.MaxBetPct = defaultMaxBetPct
	}
	return &Governor{limits: limits}
}

// Limits returns the immutable risk configuration.
func (g *Governor) Limits() domain.RiskLimits {
	return g.limits
}

// PositionSize computes the fractional-Kelly stake for the given edge,
// clamped to the absolute per-bet ceiling. Returns 0 when there is no edge
// or the odds are invalid: no edge means no bet.
func (g *Governor) PositionSize(bankroll, winProbability float64, odds int) float64 {
	d := domain.AmericanToDecimal(odds)
	if d <= 1 || winProbability <= 0 || winProbability >= 1 || bankroll <= 0 {
		return 0
	}

	// Kelly: f* = (b*p - q) / b, with b = decimal odds - 1.
	b := d - 1
	p := winProbability
	q := 1 - p
	f := (b*p - q) / b * g.limits.KellyFraction

	if f <= 0 {
		slog.Debug("no edge, skipping bet", "p", p, "odds", odds)
		return 0
	}
	if f > g.limits.MaxBetPct {
		f = g.limits.MaxBetPct
	}
	return bankroll * f
}

// CheckBetAllowed evaluates the systemic limits in order; the first failing
// check decides. The bankroll snapshot and the counts must come from the same
// ledger read so the check and the placement it gates see consistent state.
func (g *Governor) CheckBetAllowed(bankroll domain.Bankroll, proposedStake float64, pendingCount int, todayPnL float64) Decision {
	if pendingCount >= g.limits.MaxConcurrentBets {
		return Decision{Reason: fmt.Sprintf("max concurrent bets reached (%d)", g.limits.MaxConcurrentBets)}
	}

	if proposedStake > bankroll.Current {
		return Decision{Reason: fmt.Sprintf("insufficient bankroll: %.2f > %.2f", proposedStake, bankroll.Current)}
	}

	maxDailyLoss := bankroll.Starting * g.limits.MaxDailyLossPct
	if todayPnL < 0 && -todayPnL >= maxDailyLoss {
		return Decision{Reason: fmt.Sprintf("daily loss limit reached: %.2f >= %.2f", -todayPnL, maxDailyLoss)}
	}

	// Pessimistic: losing this bet must not push today past the limit.
	if todayPnL-proposedStake < -maxDailyLoss {
		return Decision{Reason: "bet would exceed daily loss limit"}
	}

	if dd := bankroll.Drawdown(); dd >= g.limits.MaxDrawdownPct {
		return Decision{Reason: fmt.Sprintf("max drawdown reached: %.1f%%", dd*100)}
	}

	return Decision{Allowed: true, Reason: "OK"}
}

// ShouldHalt reports whether the drawdown circuit breaker has tripped. This
// is coarser than per-bet rejection: it tells the orchestrator to stop
// issuing new bets entirely.
func (g *Governor) ShouldHalt(bankroll domain.Bankroll) bool {
	return bankroll.Drawdown() >= g.limits.MaxDrawdownPct
}
