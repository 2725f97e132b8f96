package ports

import (
	"context"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// OddsProvider supplies games and price quotes. Implementations cover the
// real odds API, the deterministic mock feed and the fallback chain; the core
// consumes only []domain.OddsQuote, never provider-specific types.
type OddsProvider interface {
	// Name identifies the source in logs and status tracking.
	Name() string

	// Games returns the upcoming games for a sport.
	Games(ctx context.Context, sport string) ([]domain.Game, error)

	// GetOdds returns every available quote for one market of one game,
	// across all books the source covers.
	GetOdds(ctx context.Context, gameID string, market domain.MarketType) ([]domain.OddsQuote, error)
}

// ResultsProvider supplies final scores for completed games.
type ResultsProvider interface {
	// GetResult returns the game's result. Completed is false while the
	// game is still open.
	GetResult(ctx context.Context, game domain.Game) (domain.GameResult, error)
}

// ModelProvider is an opaque outcome prediction source. The core never looks
// inside the model; it consumes only the predicted line and confidence.
type ModelProvider interface {
	Predict(ctx context.Context, game domain.Game, market domain.MarketType) (domain.Prediction, error)
}
