package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmericanToDecimal_Favorite(t *testing.T) {
	// -110 → 1 + 100/110 = 1.9091
	assert.InDelta(t, 1.9091, AmericanToDecimal(-110), 0.0001)
}

func TestAmericanToDecimal_Underdog(t *testing.T) {
	// +150 → 1 + 150/100 = 2.50
	assert.InDelta(t, 2.50, AmericanToDecimal(150), 0.0001)
}

func TestAmericanToDecimal_EvenMoney(t *testing.T) {
	assert.InDelta(t, 2.0, AmericanToDecimal(100), 0.0001)
	assert.InDelta(t, 2.0, AmericanToDecimal(-100), 0.0001)
}

func TestAmericanToDecimal_ZeroOdds(t *testing.T) {
	assert.Equal(t, 0.0, AmericanToDecimal(0))
}

func TestImpliedProbability_Favorite(t *testing.T) {
	// -110 → 110/210 = 0.5238
	assert.InDelta(t, 0.5238, ImpliedProbability(-110), 0.0001)
}

func TestImpliedProbability_Underdog(t *testing.T) {
	// +120 → 100/220 = 0.4545
	assert.InDelta(t, 0.4545, ImpliedProbability(120), 0.0001)
}

func TestImpliedProbability_ZeroOdds(t *testing.T) {
	assert.Equal(t, 0.0, ImpliedProbability(0))
}

func TestImpliedProbability_RoundTripsDecimal(t *testing.T) {
	// implied probability is 1/decimal at any price
	for _, o := range []int{-250, -110, 100, 135, 400} {
		assert.InDelta(t, 1/AmericanToDecimal(o), ImpliedProbability(o), 1e-9, "odds %d", o)
	}
}

func TestWinProfit_Favorite(t *testing.T) {
	// $110 at -110 wins $100
	assert.InDelta(t, 100.0, WinProfit(110, -110), 0.001)
}

func TestWinProfit_Underdog(t *testing.T) {
	// $100 at +150 wins $150
	assert.InDelta(t, 150.0, WinProfit(100, 150), 0.001)
}

func TestWinProfit_ZeroOdds(t *testing.T) {
	assert.Equal(t, 0.0, WinProfit(100, 0))
}

func TestValidAmerican(t *testing.T) {
	assert.True(t, ValidAmerican(-110))
	assert.True(t, ValidAmerican(120))
	assert.False(t, ValidAmerican(0))
}
