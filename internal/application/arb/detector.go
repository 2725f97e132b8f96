package arb

import (
	"log/slog"
	"sort"

	"github.com/alejandrodnm/betsim/internal/domain"
)

// Detector scans the quotes of a single market for guaranteed-profit
// combinations. Scanning degrades gracefully: markets with too few books,
// zero odds or missing sides are skipped, never errors.
type Detector struct {
	minMargin float64
}

// New creates a detector that ignores opportunities below minMargin.
func New(minMargin float64) *Detector {
	return &Detector{minMargin: minMargin}
}

// Scan finds arbitrage opportunities among all quotes for one market of one
// game. Moneylines form a single two-sided group; spreads and totals are
// grouped by line point, each point group treated as its own market.
// Opportunities are returned unsized, sorted by margin descending.
func (d *Detector) Scan(gameID string, market domain.MarketType, quotes []domain.OddsQuote) []domain.ArbitrageOpportunity {
	valid := quotes[:0:0]
	for _, q := range quotes {
		if q.Market == market && domain.ValidAmerican(q.Odds) {
			valid = append(valid, q)
		}
	}

	var opps []domain.ArbitrageOpportunity
	if market == domain.MarketMoneyline {
		if opp, ok := d.checkGroup(gameID, market, nil, valid); ok {
			opps = append(opps, opp)
		}
	} else {
		for point, group := range groupByPoint(valid) {
			p := point
			if opp, ok := d.checkGroup(gameID, market, &p, group); ok {
				opps = append(opps, opp)
			}
		}
	}

	sort.Slice(opps, func(i, j int) bool {
		return opps[i].ProfitMargin > opps[j].ProfitMargin
	})
	return opps
}

// checkGroup applies the two-sided test to one point group: best price per
// side, implied probabilities summing below 1, legs from distinct books.
func (d *Detector) checkGroup(gameID string, market domain.MarketType, point *float64, quotes []domain.OddsQuote) (domain.ArbitrageOpportunity, bool) {
	if countBooks(quotes) < 2 {
		return domain.ArbitrageOpportunity{}, false
	}

	sideA, sideB := domain.MarketSides(market)
	bestA, okA := bestQuote(quotes, sideA)
	bestB, okB := bestQuote(quotes, sideB)
	if !okA || !okB {
		return domain.ArbitrageOpportunity{}, false
	}

	// Hedging both sides at one book is betting against yourself.
	if bestA.Book == bestB.Book {
		return domain.ArbitrageOpportunity{}, false
	}

	margin, ok := domain.TwoWayMargin(bestA.Odds, bestB.Odds)
	if !ok || margin <= 0 || margin < d.minMargin {
		return domain.ArbitrageOpportunity{}, false
	}

	opp := domain.ArbitrageOpportunity{
		GameID:       gameID,
		Market:       market,
		LinePoint:    point,
		ImpliedSum:   1 - margin,
		ProfitMargin: margin,
		Legs: []domain.ArbLeg{
			{Book: bestA.Book, Side: sideA, Odds: bestA.Odds, LinePoint: bestA.LinePoint},
			{Book: bestB.Book, Side: sideB, Odds: bestB.Odds, LinePoint: bestB.LinePoint},
		},
	}
	slog.Debug("arbitrage found",
		"game", gameID,
		"market", market,
		"margin", margin,
		"books", []string{bestA.Book, bestB.Book},
	)
	return opp, true
}

// bestQuote returns the quote with the highest payout per unit risked for a
// side, comparing positive and negative American odds on the decimal scale.
func bestQuote(quotes []domain.OddsQuote, side domain.Side) (domain.OddsQuote, bool) {
	var best domain.OddsQuote
	bestDec := 0.0
	for _, q := range quotes {
		if q.Side != side {
			continue
		}
		if d := domain.AmericanToDecimal(q.Odds); d > bestDec {
			best, bestDec = q, d
		}
	}
	return best, bestDec > 0
}

func groupByPoint(quotes []domain.OddsQuote) map[float64][]domain.OddsQuote {
	groups := make(map[float64][]domain.OddsQuote)
	for _, q := range quotes {
		if q.LinePoint == nil {
			continue
		}
		key := *q.LinePoint
		// Spread points mirror across sides (-3.5 home / +3.5 away is the
		// same market), so group on the magnitude seen from the home/over
		// perspective.
		if q.Side == domain.SideAway {
			key = -key
		}
		groups[key] = append(groups[key], q)
	}
	return groups
}

func countBooks(quotes []domain.OddsQuote) int {
	books := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		books[q.Book] = struct{}{}
	}
	return len(books)
}
