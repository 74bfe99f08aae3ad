package scoring

// Range-prediction multipliers, held x10000 like every other percentage in
// the pipeline. Tighter ranges pay more.
const (
	multiplier20x = 20 * BasisPointScale
	multiplier10x = 10 * BasisPointScale
	multiplier5x  = 5 * BasisPointScale
	multiplier2x  = 2 * BasisPointScale
)

// RangeMultiplierBps returns the base multiplier for a predicted price range
// by its width in micro-units.
func RangeMultiplierBps(lowerMicro, upperMicro uint64) int64 {
	if upperMicro < lowerMicro {
		return 0
	}
	width := upperMicro - lowerMicro
	switch {
	case width <= 1_000_000:
		return multiplier20x
	case width <= 5_000_000:
		return multiplier10x
	case width <= 10_000_000:
		return multiplier5x
	default:
		return multiplier2x
	}
}

// SettlePrediction resolves one range bet against the final price. A miss
// pays nothing. A hit pays entryFee times the base multiplier scaled by
// confidence/100, truncating at each step.
func SettlePrediction(lower, upper uint64, confidence int64, finalPrice, entryFeeMicros uint64) (hit bool, multiplierBps int64, reward uint64) {
	if finalPrice < lower || finalPrice > upper {
		return false, 0, 0
	}
	multiplierBps = RangeMultiplierBps(lower, upper) * confidence / 100
	reward = entryFeeMicros * uint64(multiplierBps) / BasisPointScale
	return true, multiplierBps, reward
}
