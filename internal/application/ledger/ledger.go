package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/betsim/internal/domain"
	"github.com/alejandrodnm/betsim/internal/ports"
)

// Ledger errors. All are explicit result values: the caller decides whether
// to retry with adjusted inputs, and nothing mutates on the error path.
var (
	ErrInvalidSpec       = errors.New("invalid bet spec")
	ErrInsufficientFunds = errors.New("insufficient bankroll")
	ErrInvalidResult     = errors.New("invalid result")
	ErrBetNotFound       = errors.New("bet not found")
	ErrAlreadySettled    = errors.New("bet already settled")
)

// Ledger is the paper trader: sole owner of the bankroll and the bet
// collection. Every bankroll mutation is serialized through the single mutex;
// risk checks read snapshots taken under the same lock, so a check and the
// mutation it gates never straddle a stale read.
type Ledger struct {
	mu       sync.Mutex
	bankroll domain.Bankroll
	bets     []domain.Bet
	index    map[string]int // bet id -> position in bets
	counter  int

	store ports.LedgerStorage // nil disables persistence
}

// New creates a ledger with the given starting bankroll. store may be nil for
// a purely in-memory run.
func New(startingBankroll float64, store ports.LedgerStorage) *Ledger {
	return &Ledger{
		bankroll: domain.Bankroll{
			Starting: startingBankroll,
			Current:  startingBankroll,
			Peak:     startingBankroll,
		},
		index: make(map[string]int),
		store: store,
	}
}

// Restore loads the persisted snapshot, replacing the fresh state. A missing
// snapshot is not an error; the ledger simply starts clean.
func (l *Ledger) Restore(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	snap, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("ledger.Restore: %w", err)
	}
	if snap == nil {
		slog.Info("ledger: no previous state, starting fresh")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bankroll = snap.Bankroll
	l.counter = snap.BetCounter
	l.bets = snap.Bets
	l.index = make(map[string]int, len(snap.Bets))
	for i, b := range snap.Bets {
		l.index[b.ID] = i
	}
	slog.Info("ledger: state restored",
		"bets", len(l.bets),
		"bankroll", l.bankroll.Current,
	)
	return nil
}

// PlaceBet validates the spec, deducts the stake and records a pending bet.
// Returns the new bet id, or an error without any mutation.
func (l *Ledger) PlaceBet(ctx context.Context, spec domain.BetSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("ledger.PlaceBet: %w: %w", ErrInvalidSpec, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if spec.Stake > l.bankroll.Current {
		return "", fmt.Errorf("ledger.PlaceBet: %w: stake %.2f > bankroll %.2f",
			ErrInsufficientFunds, spec.Stake, l.bankroll.Current)
	}

	l.counter++
	bet := domain.Bet{
		ID:         fmt.Sprintf("BET-%06d", l.counter),
		PlacedAt:   time.Now().UTC(),
		GameID:     spec.GameID,
		Sport:      spec.Sport,
		Market:     spec.Market,
		Selection:  spec.Selection,
		Odds:       spec.Odds,
		Stake:      spec.Stake,
		Strategy:   spec.Strategy,
		Sportsbook: spec.Sportsbook,
		LinePoint:  spec.LinePoint,
	}

	l.bankroll.Current -= spec.Stake
	l.bets = append(l.bets, bet)
	l.index[bet.ID] = len(l.bets) - 1

	slog.Info("bet placed",
		"id", bet.ID,
		"sport", bet.Sport,
		"market", bet.Market,
		"selection", bet.Selection,
		"odds", bet.Odds,
		"stake", bet.Stake,
		"strategy", bet.Strategy,
		"bankroll", l.bankroll.Current,
	)

	l.persistBet(ctx, bet, false)
	return bet.ID, nil
}

// SettleBet transitions a pending bet to settled, exactly once. A second
// settlement, or an unknown id, fails and leaves all state unchanged. When
// closing odds are supplied the probability-based CLV is computed and
// attached to the settlement.
func (l *Ledger) SettleBet(ctx context.Context, id string, result domain.Result, closingOdds *int) (domain.Settlement, error) {
	if !result.Valid() {
		return domain.Settlement{}, fmt.Errorf("ledger.SettleBet: %w: %q", ErrInvalidResult, result)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return domain.Settlement{}, fmt.Errorf("ledger.SettleBet: %w: %q", ErrBetNotFound, id)
	}
	bet := &l.bets[i]
	if bet.Settled() {
		return domain.Settlement{}, fmt.Errorf("ledger.SettleBet: %w: %q", ErrAlreadySettled, id)
	}

	settlement := domain.Settlement{
		Result:    result,
		SettledAt: time.Now().UTC(),
	}

	switch result {
	case domain.ResultWin:
		settlement.Profit = domain.WinProfit(bet.Stake, bet.Odds)
		l.bankroll.Current += bet.Stake + settlement.Profit
	case domain.ResultLoss:
		settlement.Profit = -bet.Stake
		// stake was already removed at placement
	case domain.ResultPush:
		l.bankroll.Current += bet.Stake
	}

	if closingOdds != nil {
		co := *closingOdds
		settlement.ClosingOdds = &co
		if clv, ok := domain.CLVPercent(bet.Odds, co); ok {
			settlement.CLV = &clv
		}
	}

	bet.Settlement = &settlement

	if l.bankroll.Current > l.bankroll.Peak {
		l.bankroll.Peak = l.bankroll.Current
		slog.Info("new peak bankroll", "peak", l.bankroll.Peak)
	}

	slog.Info("bet settled",
		"id", id,
		"result", result,
		"profit", settlement.Profit,
		"bankroll", l.bankroll.Current,
	)

	l.persistBet(ctx, *bet, true)
	return settlement, nil
}

// Bankroll returns a snapshot of the capital state.
func (l *Ledger) Bankroll() domain.Bankroll {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bankroll
}

// PendingCount returns the number of unsettled bets.
func (l *Ledger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.bets {
		if !b.Settled() {
			n++
		}
	}
	return n
}

// TodayPnL returns the sum of profits of bets settled on the same UTC day
// as now.
func (l *Ledger) TodayPnL(now time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	y, m, d := now.UTC().Date()
	pnl := 0.0
	for _, b := range l.bets {
		if !b.Settled() {
			continue
		}
		by, bm, bd := b.Settlement.SettledAt.Date()
		if by == y && bm == m && bd == d {
			pnl += b.Settlement.Profit
		}
	}
	return pnl
}

// History returns the bets matching the filter, in placement order.
func (l *Ledger) History(filter domain.HistoryFilter) []domain.Bet {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Bet
	for _, b := range l.bets {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// Performance aggregates settled bets placed within the trailing window.
// days <= 0 means all time.
func (l *Ledger) Performance(days int) domain.Performance {
	l.mu.Lock()
	defer l.mu.Unlock()

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -days)
	}

	perf := domain.Performance{
		CurrentBankroll:  l.bankroll.Current,
		StartingBankroll: l.bankroll.Starting,
		NetProfit:        l.bankroll.Current - l.bankroll.Starting,
	}

	clvSum, clvN := 0.0, 0
	for _, b := range l.bets {
		if !b.Settled() || b.PlacedAt.Before(cutoff) {
			continue
		}
		perf.TotalBets++
		perf.TotalStaked += b.Stake
		perf.TotalProfit += b.Settlement.Profit
		switch b.Settlement.Result {
		case domain.ResultWin:
			perf.Wins++
		case domain.ResultLoss:
			perf.Losses++
		case domain.ResultPush:
			perf.Pushes++
		}
		if b.Settlement.CLV != nil {
			clvSum += *b.Settlement.CLV
			clvN++
		}
	}

	if decided := perf.Wins + perf.Losses; decided > 0 {
		perf.WinRate = float64(perf.Wins) / float64(decided)
	}
	if perf.TotalStaked > 0 {
		perf.ROI = perf.TotalProfit / perf.TotalStaked
	}
	if clvN > 0 {
		perf.AvgCLV = clvSum / float64(clvN)
	}
	return perf
}

// persistBet writes the bet and ledger meta while holding the mutex, so a
// write never races an in-flight mutation. Failures are logged and the
// ledger keeps operating in memory.
func (l *Ledger) persistBet(ctx context.Context, bet domain.Bet, update bool) {
	if l.store == nil {
		return
	}
	var err error
	if update {
		err = l.store.UpdateBet(ctx, bet)
	} else {
		err = l.store.SaveBet(ctx, bet)
	}
	if err == nil {
		err = l.store.SaveMeta(ctx, l.bankroll, l.counter)
	}
	if err != nil {
		slog.Warn("ledger: persistence failed, continuing in memory", "bet", bet.ID, "err", err)
	}
}
