package scoring

import (
	"coindrafts-engine/models"
)

// TierFor maps (games played, win rate in bp) to a tier. Bands are checked
// highest first; a player who misses every win-rate gate falls back to
// Bronze once they have 5 games, Rookie before that. Grandmaster is never
// assigned here.
func TierFor(gamesPlayed uint64, winRateBps int64) string {
	switch {
	case gamesPlayed >= 500 && winRateBps >= 5500:
		return models.TierMaster
	case gamesPlayed >= 250 && winRateBps >= 5000:
		return models.TierDiamond
	case gamesPlayed >= 100 && winRateBps >= 4500:
		return models.TierPlatinum
	case gamesPlayed >= 50 && winRateBps >= 4000:
		return models.TierGold
	case gamesPlayed >= 15 && winRateBps >= 3000:
		return models.TierSilver
	case gamesPlayed >= 5:
		return models.TierBronze
	default:
		return models.TierRookie
	}
}

// SettlementOutcome is what the achievement rules see for one account after
// its stats have been updated for a settlement.
type SettlementOutcome struct {
	Rank         int // 1-based final rank
	ReturnBps    int64
	PreviousTier string
	NewTier      string
}

// NewlyUnlocked returns every achievement kind this settlement qualifies the
// player for. Kinds already on record are filtered out by the caller, so
// returning an already-held kind is harmless.
func NewlyUnlocked(profile models.PlayerProfile, out SettlementOutcome) []string {
	var kinds []string
	if out.Rank == 1 && profile.GamesWon == 1 {
		kinds = append(kinds, models.AchievementFirstWin)
	}
	if profile.GamesPlayed >= 10 {
		kinds = append(kinds, models.AchievementPlay10Games)
	}
	if profile.GamesPlayed >= 50 {
		kinds = append(kinds, models.AchievementPlay50Games)
	}
	if out.Rank == 1 && out.ReturnBps > 5000 {
		kinds = append(kinds, models.AchievementPerfectPortfolio)
	}
	if models.TierOrder[out.NewTier] >= models.TierOrder[models.TierDiamond] &&
		models.TierOrder[out.NewTier] > models.TierOrder[out.PreviousTier] {
		kinds = append(kinds, models.AchievementRisingStar)
	}
	return kinds
}
