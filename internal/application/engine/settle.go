package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// settleCompleted checks every game carrying pending bets, grades the bets
// of completed games and settles them with the closing quote. Point-based
// CLV is tracked for spreads and totals; the probability-based CLV attached
// by the ledger covers moneylines.
func (e *Engine) settleCompleted(ctx context.Context) (int, error) {
	settled := 0
	var firstErr error

	for gameID, game := range e.games {
		res, err := e.results.GetResult(ctx, game)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("engine.settleCompleted: %s: %w", gameID, err)
			}
			continue
		}
		if !res.Completed {
			continue
		}

		closing := e.closingQuotes(ctx, gameID)
		for _, bet := range e.book.History(domain.HistoryFilter{Status: domain.StatusPending}) {
			if bet.GameID != gameID {
				continue
			}
			result := gradeBet(bet, game, res)
			closingQuote := matchClosingQuote(closing[bet.Market], bet, game)

			var closingOdds *int
			if closingQuote != nil {
				closingOdds = &closingQuote.Odds
			}
			settlement, err := e.book.SettleBet(ctx, bet.ID, result, closingOdds)
			if err != nil {
				slog.Warn("settlement failed", "bet", bet.ID, "err", err)
				continue
			}
			settled++
			e.trackCLV(bet, settlement, closingQuote, game)
		}
		delete(e.games, gameID)
	}
	return settled, firstErr
}

// closingQuotes fetches the final pre-game quotes per market. A fetch
// failure just means no CLV for those bets.
func (e *Engine) closingQuotes(ctx context.Context, gameID string) map[domain.MarketType][]domain.OddsQuote {
	out := make(map[domain.MarketType][]domain.OddsQuote, len(markets))
	for _, market := range markets {
		quotes, err := e.odds.GetOdds(ctx, gameID, market)
		if err != nil {
			slog.Debug("closing quotes unavailable", "game", gameID, "market", market, "err", err)
			continue
		}
		out[market] = quotes
	}
	return out
}

// matchClosingQuote picks the closing quote for a bet: same side, preferring
// the book the bet was placed at, falling back to the best remaining price.
func matchClosingQuote(quotes []domain.OddsQuote, bet domain.Bet, game domain.Game) *domain.OddsQuote {
	side := betSide(bet, game)
	var best *domain.OddsQuote
	bestDec := 0.0
	for i := range quotes {
		q := &quotes[i]
		if q.Side != side || !domain.ValidAmerican(q.Odds) {
			continue
		}
		if q.Book == bet.Sportsbook {
			return q
		}
		if d := domain.AmericanToDecimal(q.Odds); d > bestDec {
			best, bestDec = q, d
		}
	}
	return best
}

// trackCLV records the observation the right way for the market: line points
// for spreads and totals, the ledger's probability CLV for moneylines.
func (e *Engine) trackCLV(bet domain.Bet, settlement domain.Settlement, closing *domain.OddsQuote, game domain.Game) {
	switch bet.Market {
	case domain.MarketSpread, domain.MarketTotal:
		if closing == nil || closing.LinePoint == nil || bet.LinePoint == nil {
			return
		}
		points := domain.CLVPoints(*bet.LinePoint, *closing.LinePoint, betSide(bet, game))
		e.tracker.Track(bet.ID, bet.Sport, bet.Strategy, points)
	default:
		if settlement.CLV != nil {
			e.tracker.Track(bet.ID, bet.Sport, bet.Strategy, *settlement.CLV)
		}
	}
}

// betSide maps a bet's selection back to a market side.
func betSide(bet domain.Bet, game domain.Game) domain.Side {
	switch bet.Selection {
	case game.HomeTeam:
		return domain.SideHome
	case game.AwayTeam:
		return domain.SideAway
	case string(domain.SideOver):
		return domain.SideOver
	default:
		return domain.SideUnder
	}
}

// gradeBet turns a final score into a win/loss/push for one bet.
func gradeBet(bet domain.Bet, game domain.Game, res domain.GameResult) domain.Result {
	switch bet.Market {
	case domain.MarketMoneyline:
		if res.HomeScore == res.AwayScore {
			return domain.ResultPush
		}
		winner := game.HomeTeam
		if res.AwayScore > res.HomeScore {
			winner = game.AwayTeam
		}
		if bet.Selection == winner {
			return domain.ResultWin
		}
		return domain.ResultLoss

	case domain.MarketSpread:
		if bet.LinePoint == nil {
			return domain.ResultPush
		}
		// LinePoint is stored from the bet side's perspective; the side
		// covers when its score plus the line beats the opponent.
		margin := float64(res.HomeScore - res.AwayScore)
		if betSide(bet, game) == domain.SideAway {
			margin = -margin
		}
		return gradeMargin(margin + *bet.LinePoint)

	case domain.MarketTotal:
		if bet.LinePoint == nil {
			return domain.ResultPush
		}
		diff := float64(res.HomeScore+res.AwayScore) - *bet.LinePoint
		if betSide(bet, game) == domain.SideUnder {
			diff = -diff
		}
		return gradeMargin(diff)
	}
	return domain.ResultPush
}

func gradeMargin(adj float64) domain.Result {
	switch {
	case adj > 0:
		return domain.ResultWin
	case adj < 0:
		return domain.ResultLoss
	default:
		return domain.ResultPush
	}
}
