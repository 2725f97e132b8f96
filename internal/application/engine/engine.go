package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/betsim/internal/application/arb"
	"github.com/alejandrodnm/betsim/internal/application/clv"
	"github.com/alejandrodnm/betsim/internal/application/ledger"
	"github.com/alejandrodnm/betsim/internal/application/risk"
	"github.com/alejandrodnm/betsim/internal/domain"
	"github.com/alejandrodnm/betsim/internal/ports"
)

const (
	defaultArbStakePct   = 0.10
	defaultMinEdgePoints = 1.5
	defaultMinConfidence = 0.60
)

var markets = []domain.MarketType{domain.MarketMoneyline, domain.MarketSpread, domain.MarketTotal}

// Config holds simulation loop settings.
type Config struct {
	Sports        []string
	Interval      time.Duration
	ArbStakePct   float64 // fraction of bankroll staked per arbitrage
	MinEdgePoints float64 // value path: minimum model edge in points
	MinConfidence float64 // value path: minimum model confidence
}

// CycleResult is everything produced by one simulation cycle.
type CycleResult struct {
	CycleID       string
	Opportunities []domain.ArbitrageOpportunity
	BetsPlaced    int
	BetsSettled   int
	Rejected      int
	Halted        bool
	Bankroll      domain.Bankroll
}

// Engine drives the simulation: quotes in, arbitrage and value checks, risk
// gate, ledger placement, then settlement and CLV tracking once results
// arrive. It runs single-threaded; the ledger's lock makes that a safety
// net rather than a requirement.
type Engine struct {
	cfg      Config
	odds     ports.OddsProvider
	results  ports.ResultsProvider
	model    ports.ModelProvider // nil disables the value path
	book     *ledger.Ledger
	governor *risk.Governor
	detector *arb.Detector
	tracker  *clv.Tracker
	notifier ports.Notifier

	games map[string]domain.Game // games with pending bets, for settlement
}

// New creates an engine with all collaborators injected.
func New(
	cfg Config,
	odds ports.OddsProvider,
	results ports.ResultsProvider,
	model ports.ModelProvider,
	book *ledger.Ledger,
	governor *risk.Governor,
	detector *arb.Detector,
	tracker *clv.Tracker,
	notifier ports.Notifier,
) *Engine {
	if cfg.ArbStakePct <= 0 {
		cfg.ArbStakePct = defaultArbStakePct
	}
	if cfg.MinEdgePoints <= 0 {
		cfg.MinEdgePoints = defaultMinEdgePoints
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = defaultMinConfidence
	}
	return &Engine{
		cfg:      cfg,
		odds:     odds,
		results:  results,
		model:    model,
		book:     book,
		governor: governor,
		detector: detector,
		tracker:  tracker,
		notifier: notifier,
		games:    make(map[string]domain.Game),
	}
}

// Run executes cycles until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "interval", e.cfg.Interval, "sports", e.cfg.Sports)

	e.runCycle(ctx)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped")
			return nil
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

func (e *Engine) runCycle(ctx context.Context) {
	start := time.Now()
	result, err := e.RunOnce(ctx)
	if err != nil {
		slog.Error("cycle failed", "err", err)
		return
	}
	slog.Info("cycle complete",
		"cycle", result.CycleID,
		"opportunities", len(result.Opportunities),
		"placed", result.BetsPlaced,
		"settled", result.BetsSettled,
		"rejected", result.Rejected,
		"halted", result.Halted,
		"bankroll", result.Bankroll.Current,
		"took", time.Since(start).Round(time.Millisecond),
	)
}

// RunOnce executes a single cycle: settle completed games first (freeing
// bankroll and concurrency slots), then scan for new bets unless the
// drawdown breaker has tripped.
func (e *Engine) RunOnce(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{CycleID: uuid.NewString()}

	settled, err := e.settleCompleted(ctx)
	if err != nil {
		slog.Warn("settlement pass incomplete", "err", err)
	}
	result.BetsSettled = settled

	bankroll := e.book.Bankroll()
	if e.governor.ShouldHalt(bankroll) {
		slog.Warn("drawdown breaker tripped, no new bets",
			"drawdown", fmt.Sprintf("%.1f%%", bankroll.Drawdown()*100),
		)
		result.Halted = true
		result.Bankroll = bankroll
		return result, nil
	}

	for _, sport := range e.cfg.Sports {
		games, err := e.odds.Games(ctx, sport)
		if err != nil {
			slog.Warn("games fetch failed, skipping sport", "sport", sport, "err", err)
			continue
		}
		for _, game := range games {
			e.scanGame(ctx, game, result)
		}
	}

	if err := e.notifier.Notify(ctx, result.Opportunities); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	result.Bankroll = e.book.Bankroll()
	return result, nil
}

// scanGame runs the arbitrage detector and the value path over every market
// of one game.
func (e *Engine) scanGame(ctx context.Context, game domain.Game, result *CycleResult) {
	for _, market := range markets {
		quotes, err := e.odds.GetOdds(ctx, game.ID, market)
		if err != nil {
			slog.Debug("odds fetch failed", "game", game.ID, "market", market, "err", err)
			continue
		}

		for _, opp := range e.detector.Scan(game.ID, market, quotes) {
			result.Opportunities = append(result.Opportunities, opp)
			placed := e.placeArbitrage(ctx, game, opp)
			result.BetsPlaced += placed
			if placed == 0 {
				result.Rejected++
			}
		}

		if market == domain.MarketSpread && e.model != nil {
			if e.placeValueBet(ctx, game, quotes) {
				result.BetsPlaced++
			}
		}
	}
}

// placeArbitrage sizes an opportunity and places both legs, but only after
// both pass the risk gate: one leg without its hedge is not an arbitrage.
func (e *Engine) placeArbitrage(ctx context.Context, game domain.Game, opp domain.ArbitrageOpportunity) int {
	bankroll := e.book.Bankroll()
	opp.SizeStakes(bankroll.Current * e.cfg.ArbStakePct)
	if opp.TotalStake <= 0 {
		return 0
	}

	pending := e.book.PendingCount()
	todayPnL := e.book.TodayPnL(time.Now())
	for i, leg := range opp.Legs {
		decision := e.governor.CheckBetAllowed(bankroll, leg.Stake, pending+i, todayPnL)
		if !decision.Allowed {
			slog.Info("arbitrage rejected", "game", game.ID, "reason", decision.Reason)
			return 0
		}
	}

	placed := 0
	for _, leg := range opp.Legs {
		spec := domain.BetSpec{
			GameID:     game.ID,
			Sport:      game.Sport,
			Market:     opp.Market,
			Selection:  e.selectionFor(game, opp.Market, leg.Side),
			Odds:       leg.Odds,
			Stake:      leg.Stake,
			Strategy:   "arbitrage",
			Sportsbook: leg.Book,
			LinePoint:  leg.LinePoint,
		}
		if _, err := e.book.PlaceBet(ctx, spec); err != nil {
			slog.Warn("arbitrage leg rejected by ledger", "game", game.ID, "err", err)
			continue
		}
		placed++
	}
	if placed > 0 {
		e.games[game.ID] = game
	}
	return placed
}

// placeValueBet bets the model's edge on the spread when it clears the
// configured thresholds, sized by the governor's fractional Kelly.
func (e *Engine) placeValueBet(ctx context.Context, game domain.Game, quotes []domain.OddsQuote) bool {
	pred, err := e.model.Predict(ctx, game, domain.MarketSpread)
	if err != nil {
		slog.Debug("model unavailable", "game", game.ID, "err", err)
		return false
	}
	if pred.Confidence < e.cfg.MinConfidence {
		return false
	}

	quote, ok := bestSideQuote(quotes, domain.SideHome)
	if !ok || quote.LinePoint == nil {
		return false
	}
	marketLine := *quote.LinePoint

	// Lines are home-perspective: a predicted line below the market line
	// means the model likes the home side more than the market does.
	edge := marketLine - pred.PredictedLine
	side := domain.SideHome
	if edge < 0 {
		edge = -edge
		side = domain.SideAway
		if quote, ok = bestSideQuote(quotes, domain.SideAway); !ok || quote.LinePoint == nil {
			return false
		}
	}
	if edge < e.cfg.MinEdgePoints {
		return false
	}

	bankroll := e.book.Bankroll()
	stake := e.governor.PositionSize(bankroll.Current, pred.Confidence, quote.Odds)
	if stake <= 0 {
		return false
	}
	decision := e.governor.CheckBetAllowed(bankroll, stake, e.book.PendingCount(), e.book.TodayPnL(time.Now()))
	if !decision.Allowed {
		slog.Info("value bet rejected", "game", game.ID, "reason", decision.Reason)
		return false
	}

	spec := domain.BetSpec{
		GameID:     game.ID,
		Sport:      game.Sport,
		Market:     domain.MarketSpread,
		Selection:  e.selectionFor(game, domain.MarketSpread, side),
		Odds:       quote.Odds,
		Stake:      stake,
		Strategy:   "clv_model",
		Sportsbook: quote.Book,
		LinePoint:  quote.LinePoint,
	}
	if _, err := e.book.PlaceBet(ctx, spec); err != nil {
		slog.Warn("value bet rejected by ledger", "game", game.ID, "err", err)
		return false
	}
	e.games[game.ID] = game
	return true
}

func (e *Engine) selectionFor(game domain.Game, market domain.MarketType, side domain.Side) string {
	switch side {
	case domain.SideHome:
		return game.HomeTeam
	case domain.SideAway:
		return game.AwayTeam
	default:
		return string(side) // over/under
	}
}

func bestSideQuote(quotes []domain.OddsQuote, side domain.Side) (domain.OddsQuote, bool) {
	var best domain.OddsQuote
	bestDec := 0.0
	for _, q := range quotes {
		if q.Side != side || !domain.ValidAmerican(q.Odds) {
			continue
		}
		if d := domain.AmericanToDecimal(q.Odds); d > bestDec {
			best, bestDec = q, d
		}
	}
	return best, bestDec > 0
}
