package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLVPoints_HomeSide(t *testing.T) {
	// home takes closing - entry
	assert.InDelta(t, -2.0, CLVPoints(-3.5, -5.5, SideHome), 0.001)
	assert.InDelta(t, 2.0, CLVPoints(-5.5, -3.5, SideHome), 0.001)
}

func TestCLVPoints_AwaySide(t *testing.T) {
	// away takes entry - closing: entry +3.5, close +5.5 → -2
	assert.InDelta(t, -2.0, CLVPoints(3.5, 5.5, SideAway), 0.001)
	assert.InDelta(t, 2.0, CLVPoints(5.5, 3.5, SideAway), 0.001)
}

func TestCLVPoints_Totals(t *testing.T) {
	// over 210.5 with a close at 214.5 beat the market by 4
	assert.InDelta(t, 4.0, CLVPoints(210.5, 214.5, SideOver), 0.001)
	// under the same move is -4
	assert.InDelta(t, -4.0, CLVPoints(210.5, 214.5, SideUnder), 0.001)
}

func TestCLVPercent_PositiveWhenLineShortens(t *testing.T) {
	// entry +150 (0.40), close +120 (0.4545) → +13.64%
	clv, ok := CLVPercent(150, 120)
	require.True(t, ok)
	assert.InDelta(t, 13.64, clv, 0.01)
}

func TestCLVPercent_NegativeWhenLineDrifts(t *testing.T) {
	clv, ok := CLVPercent(120, 150)
	require.True(t, ok)
	assert.Less(t, clv, 0.0)
}

func TestCLVPercent_SamePrice(t *testing.T) {
	clv, ok := CLVPercent(-110, -110)
	require.True(t, ok)
	assert.InDelta(t, 0.0, clv, 1e-9)
}

func TestCLVPercent_InvalidOdds(t *testing.T) {
	_, ok := CLVPercent(0, -110)
	assert.False(t, ok)
	_, ok = CLVPercent(-110, 0)
	assert.False(t, ok)
}

func TestBucketCLV(t *testing.T) {
	assert.Equal(t, CLVHighlyPositive, BucketCLV(2.5))
	assert.Equal(t, CLVPositive, BucketCLV(2.0))
	assert.Equal(t, CLVPositive, BucketCLV(0.1))
	assert.Equal(t, CLVNegative, BucketCLV(0.0)) // matching the close is not beating it
	assert.Equal(t, CLVNegative, BucketCLV(-2.0))
	assert.Equal(t, CLVHighlyNegative, BucketCLV(-2.1))
}
