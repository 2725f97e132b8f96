package domain

import (
	"fmt"
	"time"
)

// MarketType identifies the kind of market a bet was placed on.
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
)

// Valid reports whether m is a known market type.
func (m MarketType) Valid() bool {
	switch m {
	case MarketMoneyline, MarketSpread, MarketTotal:
		return true
	}
	return false
}

// Result is the graded outcome of a settled bet.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultPush Result = "push"
)

// Valid reports whether r is a known result.
func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultPush:
		return true
	}
	return false
}

// Bet status strings used for persistence, export and history filters.
const (
	StatusPending = "pending"
	StatusSettled = "settled"
)

// BetSpec is a proposed bet before the ledger accepts it.
type BetSpec struct {
	GameID     string
	Sport      string
	Market     MarketType
	Selection  string // team name, or "over"/"under"
	Odds       int    // American
	Stake      float64
	Strategy   string
	Sportsbook string
	LinePoint  *float64 // spreads/totals only
}

// Validate checks that every required field is present and well-formed.
func (s BetSpec) Validate() error {
	switch {
	case s.GameID == "":
		return fmt.Errorf("missing game id")
	case s.Sport == "":
		return fmt.Errorf("missing sport")
	case !s.Market.Valid():
		return fmt.Errorf("invalid market type %q", s.Market)
	case s.Selection == "":
		return fmt.Errorf("missing selection")
	case !ValidAmerican(s.Odds):
		return fmt.Errorf("invalid odds %d", s.Odds)
	case s.Stake <= 0:
		return fmt.Errorf("invalid stake %.2f", s.Stake)
	case s.Strategy == "":
		return fmt.Errorf("missing strategy")
	}
	return nil
}

// Settlement is the one-way terminal state of a bet. A bet carrying a nil
// Settlement is pending; once attached it is never replaced or mutated.
type Settlement struct {
	Result      Result
	Profit      float64 // signed; -stake on loss, 0 on push
	ClosingOdds *int
	CLV         *float64 // probability-based CLV %, set when closing odds are known
	SettledAt   time.Time
}

// Bet is a single ledger entry. Entry fields are fixed at placement.
type Bet struct {
	ID         string
	PlacedAt   time.Time
	GameID     string
	Sport      string
	Market     MarketType
	Selection  string
	Odds       int
	Stake      float64
	Strategy   string
	Sportsbook string
	LinePoint  *float64

	Settlement *Settlement // nil while pending
}

// Settled reports whether the bet has reached its terminal state.
func (b Bet) Settled() bool {
	return b.Settlement != nil
}

// Status returns the persistence/export status string.
func (b Bet) Status() string {
	if b.Settled() {
		return StatusSettled
	}
	return StatusPending
}

// Profit returns the realized profit: 0 while pending, fixed once settled.
func (b Bet) Profit() float64 {
	if b.Settlement == nil {
		return 0
	}
	return b.Settlement.Profit
}

// Bankroll is the capital state owned by the ledger.
// Peak is monotonically non-decreasing.
type Bankroll struct {
	Starting float64
	Current  float64
	Peak     float64
}

// Drawdown returns the fractional decline of Current from Peak.
func (b Bankroll) Drawdown() float64 {
	if b.Peak <= 0 {
		return 0
	}
	return (b.Peak - b.Current) / b.Peak
}

// RiskLimits is the immutable risk configuration consumed by the governor.
type RiskLimits struct {
	MaxDailyLossPct   float64 // fraction of starting bankroll
	MaxDrawdownPct    float64 // fraction of peak
	MaxConcurrentBets int
	KellyFraction     float64 // 0 < f <= 1
	MaxBetPct         float64 // absolute per-bet ceiling, fraction of bankroll
}

// HistoryFilter selects bets from the ledger history. Zero-value fields are
// ignored; set fields combine by conjunction.
type HistoryFilter struct {
	Sport    string
	Strategy string
	Status   string // StatusPending | StatusSettled
	Result   Result
}

// Match reports whether b satisfies every set field of the filter.
func (f HistoryFilter) Match(b Bet) bool {
	if f.Sport != "" && b.Sport != f.Sport {
		return false
	}
	if f.Strategy != "" && b.Strategy != f.Strategy {
		return false
	}
	if f.Status != "" && b.Status() != f.Status {
		return false
	}
	if f.Result != "" {
		if !b.Settled() || b.Settlement.Result != f.Result {
			return false
		}
	}
	return true
}

// LedgerSnapshot is the persisted state of the paper trader: enough to
// restore bankroll, the bet counter and the full bet history.
type LedgerSnapshot struct {
	Bankroll    Bankroll
	BetCounter  int
	Bets        []Bet
	LastUpdated time.Time
}
