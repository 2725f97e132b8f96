package ports

import (
	"context"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// Notifier presents detected opportunities to the user. The console
// implementation prints a formatted table; delivery channels beyond that are
// external collaborators.
type Notifier interface {
	Notify(ctx context.Context, opportunities []domain.ArbitrageOpportunity) error
}
