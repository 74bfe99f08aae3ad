package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPoolHubSplit(t *testing.T) {
	prizes := SplitPool(1_000_000, HubPrizeSplit)
	assert.Equal(t, [3]uint64{500_000, 300_000, 200_000}, prizes)
}

func TestSplitPoolTournamentSplit(t *testing.T) {
	prizes := SplitPool(1_000_000, TournamentPrizeSplit)
	assert.Equal(t, [3]uint64{600_000, 300_000, 100_000}, prizes)
}

func TestSplitPoolTruncationLeavesRemainderUnallocated(t *testing.T) {
	// 99 splits to 49/29/19 — the leftover 2 stays in the pool.
	prizes := SplitPool(99, HubPrizeSplit)
	assert.Equal(t, [3]uint64{49, 29, 19}, prizes)
	assert.Less(t, prizes[0]+prizes[1]+prizes[2], uint64(99))
}

func TestPrizeForRank(t *testing.T) {
	pool := uint64(1_000_000)
	assert.Equal(t, uint64(500_000), PrizeForRank(pool, HubPrizeSplit, 1))
	assert.Equal(t, uint64(300_000), PrizeForRank(pool, HubPrizeSplit, 2))
	assert.Equal(t, uint64(200_000), PrizeForRank(pool, HubPrizeSplit, 3))
	// Below the podium, and garbage ranks, pay nothing.
	assert.Equal(t, uint64(0), PrizeForRank(pool, HubPrizeSplit, 4))
	assert.Equal(t, uint64(0), PrizeForRank(pool, HubPrizeSplit, 0))
	assert.Equal(t, uint64(0), PrizeForRank(pool, HubPrizeSplit, -1))
}

func TestPrizePool(t *testing.T) {
	assert.Equal(t, uint64(5_000_000), PrizePool(1_000_000, 5))
	assert.Equal(t, uint64(0), PrizePool(1_000_000, 0))
}

func TestSplitEvenly(t *testing.T) {
	assert.Equal(t, uint64(333_333), SplitEvenly(1_000_000, 3))
	assert.Equal(t, uint64(0), SplitEvenly(1_000_000, 0))
}
