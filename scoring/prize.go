package scoring

// Prize splits in whole percent for ranks 1..3. Everyone below rank 3 gets
// nothing; truncation remainders stay unallocated in the pool.
var (
	HubPrizeSplit        = [3]uint64{50, 30, 20}
	TournamentPrizeSplit = [3]uint64{60, 30, 10}
)

// PrizePool is entry fee times the number of entrants.
func PrizePool(entryFeeMicros uint64, participants int) uint64 {
	if participants <= 0 {
		return 0
	}
	return entryFeeMicros * uint64(participants)
}

// SplitPool returns the rank 1..3 payouts with truncating division.
func SplitPool(pool uint64, split [3]uint64) [3]uint64 {
	var out [3]uint64
	for i, pct := range split {
		out[i] = pool * pct / 100
	}
	return out
}

// PrizeForRank returns the payout for a 1-based rank, zero beyond rank 3.
func PrizeForRank(pool uint64, split [3]uint64, rank int) uint64 {
	if rank < 1 || rank > 3 {
		return 0
	}
	return pool * split[rank-1] / 100
}

// SplitEvenly divides an amount across n recipients, truncating. Used when
// relaying a tournament prize pool to its winners.
func SplitEvenly(amount uint64, n int) uint64 {
	if n <= 0 {
		return 0
	}
	return amount / uint64(n)
}
