package domain

// ArbLeg is one side of an arbitrage combination.
type ArbLeg struct {
	Book      string
	Side      Side
	Odds      int
	LinePoint *float64
	Stake     float64 // 0 until sized
}

// ArbitrageOpportunity is a guaranteed-profit combination computed on demand
// from a set of quotes. It is never persisted; it becomes ledger bets only
// after validation and sizing.
type ArbitrageOpportunity struct {
	GameID       string
	Market       MarketType
	LinePoint    *float64 // set for spread/total point groups
	Legs         []ArbLeg
	ImpliedSum   float64
	ProfitMargin float64 // 1 - ImpliedSum; 0 at break-even
	TotalStake   float64 // 0 until sized
}

// TwoWayMargin computes the arbitrage margin for the best price on each side
// of a two-outcome market. ok is false when either price is invalid; a
// non-positive margin is a normal "no arbitrage" answer, not an error.
func TwoWayMargin(oddsA, oddsB int) (margin float64, ok bool) {
	da := AmericanToDecimal(oddsA)
	db := AmericanToDecimal(oddsB)
	if da == 0 || db == 0 {
		return 0, false
	}
	sum := 1/da + 1/db
	return 1 - sum, true
}

// SizeStakes splits total across the legs proportionally to each leg's
// implied probability, which equalizes the payout regardless of outcome.
// Legs with invalid odds leave the opportunity unsized.
func (o *ArbitrageOpportunity) SizeStakes(total float64) {
	if total <= 0 || len(o.Legs) == 0 {
		return
	}
	probs := make([]float64, len(o.Legs))
	sum := 0.0
	for i, leg := range o.Legs {
		p := ImpliedProbability(leg.Odds)
		if p == 0 {
			return
		}
		probs[i] = p
		sum += p
	}
	for i := range o.Legs {
		o.Legs[i].Stake = total * probs[i] / sum
	}
	o.TotalStake = total
}

// GuaranteedProfit returns the profit locked in by the sized stakes: the
// equalized payout minus the total outlay. Zero until sized.
func (o ArbitrageOpportunity) GuaranteedProfit() float64 {
	if o.TotalStake <= 0 || o.ImpliedSum <= 0 {
		return 0
	}
	return o.TotalStake/o.ImpliedSum - o.TotalStake
}
