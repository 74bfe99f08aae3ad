package models

import (
	"time"
)

// Achievement kinds. Each kind unlocks at most once per account.
const (
	AchievementFirstWin         = "first_win"
	AchievementPlay10Games      = "play_10_games"
	AchievementPlay50Games      = "play_50_games"
	AchievementPerfectPortfolio = "perfect_portfolio"
	AchievementRisingStar       = "rising_star"
)

// Achievement is an unlocked instance.
type Achievement struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	Account    string    `json:"account" gorm:"uniqueIndex:idx_achievement_account_kind;not null"`
	Kind       string    `json:"kind" gorm:"uniqueIndex:idx_achievement_account_kind;not null"`
	GameID     string    `json:"game_id,omitempty"` // game whose settlement unlocked it
	UnlockedAt time.Time `json:"unlocked_at" gorm:"autoCreateTime"`
}

// AchievementInfo is static display metadata per kind.
type AchievementInfo struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var AchievementCatalog = []AchievementInfo{
	{Kind: AchievementFirstWin, Name: "First Victory", Description: "Win your first contest"},
	{Kind: AchievementPlay10Games, Name: "Regular", Description: "Play 10 contests"},
	{Kind: AchievementPlay50Games, Name: "Veteran", Description: "Play 50 contests"},
	{Kind: AchievementPerfectPortfolio, Name: "Perfect Draft", Description: "Win a contest with a portfolio return above 50%"},
	{Kind: AchievementRisingStar, Name: "Rising Star", Description: "Reach Diamond tier or above"},
}
