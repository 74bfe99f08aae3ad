package scoring

import (
	"testing"

	"coindrafts-engine/models"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		name       string
		games      uint64
		winRateBps int64
		want       string
	}{
		{"fresh account", 0, 0, models.TierRookie},
		{"under five games", 4, 10_000, models.TierRookie},
		{"five games", 5, 0, models.TierBronze},
		{"silver gate met", 15, 3000, models.TierSilver},
		{"silver gate missed", 20, 2900, models.TierBronze},
		{"gold gate met", 50, 4000, models.TierGold},
		{"platinum gate met", 100, 4500, models.TierPlatinum},
		{"diamond gate met", 250, 5000, models.TierDiamond},
		{"master gate met", 500, 5500, models.TierMaster},
		{"veteran with poor win rate", 600, 1000, models.TierBronze},
		{"high win rate but few games", 30, 9000, models.TierSilver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TierFor(tc.games, tc.winRateBps))
		})
	}
}

func TestTierForNeverAssignsGrandmaster(t *testing.T) {
	assert.NotEqual(t, models.TierGrandmaster, TierFor(10_000, 10_000))
}

func TestNewlyUnlockedFirstWin(t *testing.T) {
	profile := models.PlayerProfile{GamesPlayed: 1, GamesWon: 1}
	kinds := NewlyUnlocked(profile, SettlementOutcome{Rank: 1, ReturnBps: 1200, PreviousTier: models.TierRookie, NewTier: models.TierRookie})
	assert.Contains(t, kinds, models.AchievementFirstWin)
	assert.NotContains(t, kinds, models.AchievementPerfectPortfolio)
}

func TestNewlyUnlockedPerfectPortfolio(t *testing.T) {
	profile := models.PlayerProfile{GamesPlayed: 3, GamesWon: 2}
	out := SettlementOutcome{Rank: 1, ReturnBps: 5001, PreviousTier: models.TierRookie, NewTier: models.TierRookie}
	assert.Contains(t, NewlyUnlocked(profile, out), models.AchievementPerfectPortfolio)

	// Exactly 5000 bp is not enough, and neither is a losing rank.
	out.ReturnBps = 5000
	assert.NotContains(t, NewlyUnlocked(profile, out), models.AchievementPerfectPortfolio)
	out.ReturnBps = 9000
	out.Rank = 2
	assert.NotContains(t, NewlyUnlocked(profile, out), models.AchievementPerfectPortfolio)
}

func TestNewlyUnlockedPlayMilestones(t *testing.T) {
	out := SettlementOutcome{Rank: 7, PreviousTier: models.TierBronze, NewTier: models.TierBronze}

	profile := models.PlayerProfile{GamesPlayed: 9}
	assert.NotContains(t, NewlyUnlocked(profile, out), models.AchievementPlay10Games)

	profile.GamesPlayed = 10
	kinds := NewlyUnlocked(profile, out)
	assert.Contains(t, kinds, models.AchievementPlay10Games)
	assert.NotContains(t, kinds, models.AchievementPlay50Games)

	profile.GamesPlayed = 50
	assert.Contains(t, NewlyUnlocked(profile, out), models.AchievementPlay50Games)
}

func TestNewlyUnlockedRisingStar(t *testing.T) {
	profile := models.PlayerProfile{GamesPlayed: 250, GamesWon: 130}
	out := SettlementOutcome{Rank: 1, PreviousTier: models.TierPlatinum, NewTier: models.TierDiamond}
	// GamesWon > 1, so first_win must not fire here.
	kinds := NewlyUnlocked(profile, out)
	assert.Contains(t, kinds, models.AchievementRisingStar)
	assert.NotContains(t, kinds, models.AchievementFirstWin)

	// Staying at Diamond is not a crossing.
	out.PreviousTier = models.TierDiamond
	assert.NotContains(t, NewlyUnlocked(profile, out), models.AchievementRisingStar)
}
