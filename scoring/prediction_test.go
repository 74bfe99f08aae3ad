package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeMultiplierBps(t *testing.T) {
	// Width boundaries in micro-units.
	assert.Equal(t, int64(200_000), RangeMultiplierBps(1_000_000, 2_000_000))  // width 1.0 -> 20x
	assert.Equal(t, int64(100_000), RangeMultiplierBps(1_000_000, 2_000_001))  // just over -> 10x
	assert.Equal(t, int64(100_000), RangeMultiplierBps(0, 5_000_000))          // width 5.0 -> 10x
	assert.Equal(t, int64(50_000), RangeMultiplierBps(0, 10_000_000))          // width 10.0 -> 5x
	assert.Equal(t, int64(20_000), RangeMultiplierBps(0, 10_000_001))          // wider -> 2x
	assert.Equal(t, int64(0), RangeMultiplierBps(2_000_000, 1_000_000))        // inverted range
}

func TestSettlePredictionHit(t *testing.T) {
	// Tight range, full confidence: 20x on a 1 USDC fee.
	hit, mult, reward := SettlePrediction(45_000_000, 46_000_000, 100, 45_500_000, 1_000_000)
	assert.True(t, hit)
	assert.Equal(t, int64(200_000), mult)
	assert.Equal(t, uint64(20_000_000), reward)
}

func TestSettlePredictionConfidenceScales(t *testing.T) {
	// 50% confidence halves the effective multiplier.
	hit, mult, reward := SettlePrediction(45_000_000, 46_000_000, 50, 45_500_000, 1_000_000)
	assert.True(t, hit)
	assert.Equal(t, int64(100_000), mult)
	assert.Equal(t, uint64(10_000_000), reward)
}

func TestSettlePredictionBoundsInclusive(t *testing.T) {
	hit, _, _ := SettlePrediction(45_000_000, 46_000_000, 80, 45_000_000, 1_000_000)
	assert.True(t, hit)
	hit, _, _ = SettlePrediction(45_000_000, 46_000_000, 80, 46_000_000, 1_000_000)
	assert.True(t, hit)
}

func TestSettlePredictionMissPaysNothing(t *testing.T) {
	hit, mult, reward := SettlePrediction(45_000_000, 46_000_000, 100, 44_999_999, 1_000_000)
	assert.False(t, hit)
	assert.Zero(t, mult)
	assert.Zero(t, reward)
}
