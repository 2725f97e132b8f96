package domain

// Closing line value. Two variants with one sign convention each:
//
//   - Points (spreads/totals): positive CLV means the line moved toward the
//     bettor after entry. Home and Over bets take closing - entry; Away and
//     Under bets take entry - closing.
//   - Percent (moneylines): positive CLV means the closing implied
//     probability exceeds the entry implied probability, i.e. the entry
//     price was longer than the market's final price.
//
// Callers pick the variant by market type. Positive always means "the market
// agreed with you after you bet" in both variants.

// CLVPoints computes point-based CLV for spread and total markets.
func CLVPoints(entryLine, closingLine float64, side Side) float64 {
	if side == SideHome || side == SideOver {
		return closingLine - entryLine
	}
	return entryLine - closingLine
}

// CLVPercent computes probability-based CLV as a percentage for moneyline
// markets. ok is false when either price is invalid.
func CLVPercent(entryOdds, closingOdds int) (clv float64, ok bool) {
	entryProb := ImpliedProbability(entryOdds)
	closingProb := ImpliedProbability(closingOdds)
	if entryProb == 0 || closingProb == 0 {
		return 0, false
	}
	return (closingProb - entryProb) / entryProb * 100, true
}

// CLVBucket labels a CLV value for the diagnostic histogram. Zero lands in
// the negative bucket: matching the close is not beating it.
type CLVBucket string

const (
	CLVHighlyPositive CLVBucket = "highly_positive" // > 2
	CLVPositive       CLVBucket = "positive"        // (0, 2]
	CLVNegative       CLVBucket = "negative"        // [-2, 0]
	CLVHighlyNegative CLVBucket = "highly_negative" // < -2
)

// BucketCLV assigns a CLV value to its histogram bucket.
func BucketCLV(clv float64) CLVBucket {
	switch {
	case clv > 2:
		return CLVHighlyPositive
	case clv > 0:
		return CLVPositive
	case clv >= -2:
		return CLVNegative
	default:
		return CLVHighlyNegative
	}
}
