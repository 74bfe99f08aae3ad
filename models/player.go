package models

import (
	"time"
)

// Player tiers, lowest to highest. Grandmaster is reserved for manual
// promotion and never assigned by the tier calculator.
const (
	TierRookie      = "rookie"
	TierBronze      = "bronze"
	TierSilver      = "silver"
	TierGold        = "gold"
	TierPlatinum    = "platinum"
	TierDiamond     = "diamond"
	TierMaster      = "master"
	TierGrandmaster = "grandmaster"
)

// TierOrder maps tier -> ordinal for "did the tier go up" checks.
var TierOrder = map[string]int{
	TierRookie:      0,
	TierBronze:      1,
	TierSilver:      2,
	TierGold:        3,
	TierPlatinum:    4,
	TierDiamond:     5,
	TierMaster:      6,
	TierGrandmaster: 7,
}

// PlayerProfile is the hub-owned record for one account. Stats are
// denormalized here and updated only during settlement.
type PlayerProfile struct {
	Account     string `json:"account" gorm:"primaryKey"`
	DisplayName string `json:"display_name"`
	Tier        string `json:"tier" gorm:"default:'rookie'"`
	Verified    bool   `json:"verified" gorm:"default:false"`

	GamesPlayed   uint64 `json:"games_played" gorm:"default:0"`
	GamesWon      uint64 `json:"games_won" gorm:"default:0"`
	Top10Finishes uint64 `json:"top_10_finishes" gorm:"default:0"`
	TotalEarnings uint64 `json:"total_earnings" gorm:"default:0"` // micro-USDC

	BestPerformanceBps int64 `json:"best_performance_bps" gorm:"default:0"`
	AvgPerformanceBps  int64 `json:"avg_performance_bps" gorm:"default:0"`

	CurrentStreak uint64 `json:"current_streak" gorm:"default:0"`
	LongestStreak uint64 `json:"longest_streak" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// WinRateBps returns wins/games in basis points, 0 when no games played.
func (p *PlayerProfile) WinRateBps() int64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return int64(p.GamesWon * 10_000 / p.GamesPlayed)
}
