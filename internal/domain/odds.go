package domain

import "math"

// American odds math. Every conversion guards odds == 0 explicitly: a zero
// price is malformed book data, never a quote. Callers treat the zero return
// as "no price" and skip the quote.

// ValidAmerican reports whether o is a usable American price.
func ValidAmerican(o int) bool {
	return o != 0
}

// AmericanToDecimal converts American odds to decimal odds
// (1 + profit per unit staked). Returns 0 for invalid odds.
func AmericanToDecimal(o int) float64 {
	switch {
	case o > 0:
		return 1 + float64(o)/100
	case o < 0:
		return 1 + 100/math.Abs(float64(o))
	default:
		return 0
	}
}

// ImpliedProbability returns the break-even win probability embedded in an
// American price, ignoring vig. Returns 0 for invalid odds.
func ImpliedProbability(o int) float64 {
	switch {
	case o > 0:
		return 100 / (float64(o) + 100)
	case o < 0:
		abs := math.Abs(float64(o))
		return abs / (abs + 100)
	default:
		return 0
	}
}

// WinProfit returns the profit (excluding the returned stake) on a winning
// bet of the given stake at American odds o.
func WinProfit(stake float64, o int) float64 {
	switch {
	case o > 0:
		return stake * float64(o) / 100
	case o < 0:
		return stake * 100 / math.Abs(float64(o))
	default:
		return 0
	}
}
