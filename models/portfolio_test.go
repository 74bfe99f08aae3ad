package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHoldings(t *testing.T) {
	valid := []CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 50},
		{Symbol: "ETH", AllocationPercent: 50},
	}
	assert.NoError(t, ValidateHoldings(valid, 5))
}

func TestValidateHoldingsRejectsBadSums(t *testing.T) {
	under := []CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 60},
		{Symbol: "ETH", AllocationPercent: 30},
	}
	assert.ErrorContains(t, ValidateHoldings(under, 5), "sum to 100")

	over := []CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 60},
		{Symbol: "ETH", AllocationPercent: 50},
	}
	assert.ErrorContains(t, ValidateHoldings(over, 5), "sum to 100")
}

func TestValidateHoldingsRejectsUnsupportedAndDuplicates(t *testing.T) {
	unsupported := []CryptoHolding{{Symbol: "SHIB", AllocationPercent: 100}}
	assert.ErrorContains(t, ValidateHoldings(unsupported, 5), "unsupported")

	duplicated := []CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 50},
		{Symbol: "BTC", AllocationPercent: 50},
	}
	assert.ErrorContains(t, ValidateHoldings(duplicated, 5), "duplicate")
}

func TestValidateHoldingsRespectsSizeLimits(t *testing.T) {
	assert.ErrorContains(t, ValidateHoldings(nil, 5), "at least one")

	three := []CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 34},
		{Symbol: "ETH", AllocationPercent: 33},
		{Symbol: "SOL", AllocationPercent: 33},
	}
	assert.ErrorContains(t, ValidateHoldings(three, 2), "maximum size")
	assert.NoError(t, ValidateHoldings(three, 3))
}

func TestEqualSplitHoldings(t *testing.T) {
	holdings := EqualSplitHoldings([]string{"BTC", "ETH", "SOL"})
	require.Len(t, holdings, 3)

	// 100/3 truncates to 33; the first pick absorbs the remainder.
	assert.Equal(t, int64(34), holdings[0].AllocationPercent)
	assert.Equal(t, int64(33), holdings[1].AllocationPercent)
	assert.Equal(t, int64(33), holdings[2].AllocationPercent)

	var total int64
	for _, h := range holdings {
		total += h.AllocationPercent
	}
	assert.Equal(t, int64(100), total)
	assert.NoError(t, ValidateHoldings(holdings, 5))
}

func TestMaxRoundsFor(t *testing.T) {
	assert.Equal(t, 4, MaxRoundsFor(TournamentSingleElimination, 16))
	assert.Equal(t, 5, MaxRoundsFor(TournamentSingleElimination, 17))
	assert.Equal(t, 7, MaxRoundsFor(TournamentRoundRobin, 8))
	assert.Equal(t, 14, MaxRoundsFor(TournamentLeague, 8))
	assert.Equal(t, 1, MaxRoundsFor("unknown", 8))
}

func TestWinRateBps(t *testing.T) {
	p := PlayerProfile{GamesPlayed: 4, GamesWon: 1}
	assert.Equal(t, int64(2500), p.WinRateBps())

	empty := PlayerProfile{}
	assert.Equal(t, int64(0), empty.WinRateBps())
}
