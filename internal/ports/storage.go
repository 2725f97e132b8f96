package ports

import (
	"context"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// LedgerStorage persists the paper trading ledger. The ledger is the single
// writer; persistence failures are reported but never corrupt in-memory
// state, so the ledger keeps operating when storage is down.
type LedgerStorage interface {
	// SaveBet inserts a newly placed bet.
	SaveBet(ctx context.Context, bet domain.Bet) error

	// UpdateBet rewrites a bet after settlement.
	UpdateBet(ctx context.Context, bet domain.Bet) error

	// SaveMeta persists the bankroll state and bet counter.
	SaveMeta(ctx context.Context, bankroll domain.Bankroll, betCounter int) error

	// Load restores the full ledger snapshot, or nil when none exists yet.
	Load(ctx context.Context) (*domain.LedgerSnapshot, error)

	// Close releases the underlying database.
	Close() error
}
