// Package scoring holds the deterministic settlement math. Everything here
// is integer-only: prices in micro-units, returns in basis points, wide
// intermediates via math/big. No floats, no randomness, no clock reads.
package scoring

import (
	"math/big"
	"sort"

	"coindrafts-engine/models"
)

// BasisPointScale: 10_000 bp = 100%.
const BasisPointScale = 10_000

// PositionWeights rank ordered tournament picks: the first pick counts five
// times as much as the fifth.
var PositionWeights = []int64{5, 4, 3, 2, 1}

// AssetReturnBps computes ((end - start) * 10000) / start with a 128-bit
// intermediate and truncating division. A zero start price yields 0.
func AssetReturnBps(startMicro, endMicro uint64) int64 {
	if startMicro == 0 {
		return 0
	}
	ret := new(big.Int).SetUint64(endMicro)
	ret.Sub(ret, new(big.Int).SetUint64(startMicro))
	ret.Mul(ret, big.NewInt(BasisPointScale))
	ret.Quo(ret, new(big.Int).SetUint64(startMicro))
	return ret.Int64()
}

// PortfolioReturnBps is the allocation-weighted return of a hub draft.
// An asset missing from either snapshot contributes exactly zero; the rest
// of the portfolio still counts.
func PortfolioReturnBps(holdings []models.CryptoHolding, start, end models.PriceTable) int64 {
	total := new(big.Int)
	for _, h := range holdings {
		startPrice, okStart := start[h.Symbol]
		endPrice, okEnd := end[h.Symbol]
		if !okStart || !okEnd || startPrice == 0 {
			continue
		}
		contribution := big.NewInt(AssetReturnBps(startPrice, endPrice))
		contribution.Mul(contribution, big.NewInt(h.AllocationPercent))
		contribution.Quo(contribution, big.NewInt(100))
		total.Add(total, contribution)
	}
	return total.Int64()
}

// RankedReturnBps is the position-weighted score of an ordered pick list.
// Weights are scaled by 10000 before the divide so the pipeline stays in the
// same fixed-point domain as the per-asset returns.
func RankedReturnBps(picks []string, start, end models.PriceTable) int64 {
	total := new(big.Int)
	for i, symbol := range picks {
		if i >= len(PositionWeights) {
			break
		}
		startPrice, okStart := start[symbol]
		endPrice, okEnd := end[symbol]
		if !okStart || !okEnd || startPrice == 0 {
			continue
		}
		contribution := big.NewInt(AssetReturnBps(startPrice, endPrice))
		contribution.Mul(contribution, big.NewInt(PositionWeights[i]*BasisPointScale))
		contribution.Quo(contribution, big.NewInt(BasisPointScale))
		total.Add(total, contribution)
	}
	return total.Int64()
}

// Entry is one scored account prior to ranking.
type Entry struct {
	Account  string
	ScoreBps int64
}

// Rank sorts entries by score descending. The sort is stable so equal scores
// keep their submission order, making rankings replay-deterministic.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ScoreBps > ranked[j].ScoreBps
	})
	return ranked
}
