package scoring

import (
	"testing"

	"coindrafts-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetReturnBps(t *testing.T) {
	// 45,000 -> 46,800 is +4%
	assert.Equal(t, int64(400), AssetReturnBps(45_000_000_000, 46_800_000_000))
	// flat price
	assert.Equal(t, int64(0), AssetReturnBps(1_000_000, 1_000_000))
	// -50%
	assert.Equal(t, int64(-5000), AssetReturnBps(2_000_000, 1_000_000))
	// zero start price never divides
	assert.Equal(t, int64(0), AssetReturnBps(0, 1_000_000))
}

func TestAssetReturnBpsTruncatesTowardZero(t *testing.T) {
	// +0.033..% truncates to 3 bp, and the mirrored loss to -3 bp
	assert.Equal(t, int64(3), AssetReturnBps(3_000_000, 3_001_000))
	assert.Equal(t, int64(-3), AssetReturnBps(3_000_000, 2_999_000))
}

func TestPortfolioReturnBpsTwoAssetSplit(t *testing.T) {
	holdings := []models.CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 50},
		{Symbol: "ETH", AllocationPercent: 50},
	}
	start := models.PriceTable{"BTC": 45_000_000_000, "ETH": 3_200_000_000}
	end := models.PriceTable{"BTC": 46_800_000_000, "ETH": 3_360_000_000}

	// BTC: (1_800_000_000*10000/45_000_000_000)*50/100 = 200
	// ETH: (160_000_000*10000/3_200_000_000)*50/100   = 250
	assert.Equal(t, int64(450), PortfolioReturnBps(holdings, start, end))
}

func TestPortfolioReturnBpsMissingPriceIsNeutral(t *testing.T) {
	holdings := []models.CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 60},
		{Symbol: "SOL", AllocationPercent: 40},
	}
	start := models.PriceTable{"BTC": 45_000_000_000} // SOL never snapshotted
	end := models.PriceTable{"BTC": 49_500_000_000, "SOL": 100_000_000}

	// Only BTC counts: 1000 bp * 60/100
	assert.Equal(t, int64(600), PortfolioReturnBps(holdings, start, end))
}

func TestPortfolioReturnBpsDeterministic(t *testing.T) {
	holdings := []models.CryptoHolding{
		{Symbol: "BTC", AllocationPercent: 30},
		{Symbol: "ETH", AllocationPercent: 30},
		{Symbol: "SOL", AllocationPercent: 40},
	}
	start := models.PriceTable{"BTC": 45_000_000_000, "ETH": 3_200_000_000, "SOL": 95_000_000}
	end := models.PriceTable{"BTC": 46_123_456_789, "ETH": 3_111_111_111, "SOL": 101_010_101}

	first := PortfolioReturnBps(holdings, start, end)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, PortfolioReturnBps(holdings, start, end))
	}
}

func TestRankedReturnBpsPositionWeights(t *testing.T) {
	start := models.PriceTable{"BTC": 1_000_000, "ETH": 1_000_000, "SOL": 1_000_000}
	end := models.PriceTable{"BTC": 1_100_000, "ETH": 1_100_000, "SOL": 1_100_000}

	// Every pick gained 10% (1000 bp); weights 5,4,3 -> 5000+4000+3000
	got := RankedReturnBps([]string{"BTC", "ETH", "SOL"}, start, end)
	assert.Equal(t, int64(12000), got)
}

func TestRankedReturnBpsIgnoresExtraPicks(t *testing.T) {
	start := models.PriceTable{"BTC": 1_000_000}
	end := models.PriceTable{"BTC": 1_100_000}

	picks := []string{"BTC", "BTC", "BTC", "BTC", "BTC", "BTC", "BTC"}
	// Weights exist for 5 picks only: 1000*(5+4+3+2+1)
	assert.Equal(t, int64(15000), RankedReturnBps(picks, start, end))
}

func TestRankStableOnTies(t *testing.T) {
	entries := []Entry{
		{Account: "alice", ScoreBps: 100},
		{Account: "bob", ScoreBps: 250},
		{Account: "carol", ScoreBps: 100},
		{Account: "dave", ScoreBps: 250},
	}
	ranked := Rank(entries)

	require.Len(t, ranked, 4)
	// Ties keep submission order: bob before dave, alice before carol.
	assert.Equal(t, "bob", ranked[0].Account)
	assert.Equal(t, "dave", ranked[1].Account)
	assert.Equal(t, "alice", ranked[2].Account)
	assert.Equal(t, "carol", ranked[3].Account)
	// Input order is untouched.
	assert.Equal(t, "alice", entries[0].Account)
}
