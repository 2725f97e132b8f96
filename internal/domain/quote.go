package domain

import "time"

// Side is one of the two outcomes of a two-sided market.
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// MarketSides returns the two sides of a market type.
func MarketSides(m MarketType) (Side, Side) {
	if m == MarketTotal {
		return SideOver, SideUnder
	}
	return SideHome, SideAway
}

// OddsQuote is an immutable price snapshot from one book. Quotes are never
// mutated after creation; a line move is a new quote.
type OddsQuote struct {
	Book      string
	GameID    string
	Market    MarketType
	Side      Side
	Odds      int      // American
	LinePoint *float64 // spreads/totals only
	Timestamp time.Time
}

// Game identifies a single event as supplied by an odds provider.
type Game struct {
	ID       string
	Sport    string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time
}

// GameResult is the final score of a completed game.
type GameResult struct {
	GameID    string
	Completed bool
	HomeScore int
	AwayScore int
}

// Prediction is an opaque model output: a predicted line for the market and
// the model's confidence in the pick. How the line was produced is not this
// core's concern.
type Prediction struct {
	PredictedLine float64
	Confidence    float64 // 0-1, usable directly as a win probability estimate
}
