package models

import (
	"time"
)

// PriceTable maps crypto symbol -> price in micro-units at a point in time.
type PriceTable map[string]uint64

// Game is a hub contest. IDs are counter-derived ("game_7") so a replay of
// the same operation log always produces the same IDs.
type Game struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null"`
	Slug          string `json:"slug" gorm:"index"`
	Mode          string `json:"mode" gorm:"not null"`
	Creator       string `json:"creator" gorm:"index;not null"`
	EntryFee      uint64 `json:"entry_fee"` // micro-USDC per player
	DurationHours uint64 `json:"duration_hours"`
	MaxPlayers    int    `json:"max_players"`
	PortfolioSize int    `json:"portfolio_size"`

	Status      string `json:"status" gorm:"default:'open';index"`
	PlayerCount int    `json:"player_count" gorm:"default:0"`

	// Set when the leagues engine confirms the delegated tournament.
	TournamentID        string `json:"tournament_id,omitempty"`
	DelegationConfirmed bool   `json:"delegation_confirmed" gorm:"default:false"`

	StartPrices PriceTable `json:"start_prices,omitempty" gorm:"type:jsonb;serializer:json"`
	EndPrices   PriceTable `json:"end_prices,omitempty" gorm:"type:jsonb;serializer:json"`

	Winners        []string `json:"winners,omitempty" gorm:"type:jsonb;serializer:json"`
	TotalPrizePool uint64   `json:"total_prize_pool"`

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	// Settled flag, written in the same transaction as the move to
	// settling so settlement runs exactly once per game.
	SettledAt *time.Time `json:"settled_at,omitempty"`

	// Calculated fields (not stored in DB)
	AvailableSlots int `json:"available_slots,omitempty" gorm:"-"`
}

// AcceptsRegistrations reports whether the game still takes registrations.
func (g *Game) AcceptsRegistrations() bool {
	return g.Status == StatusOpen && g.PlayerCount < g.MaxPlayers
}

// GamePlayer is one registration row. Re-registering the same account is an
// idempotent overwrite, hence the composite unique index.
type GamePlayer struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	GameID       string    `json:"game_id" gorm:"uniqueIndex:idx_game_account;not null"`
	Account      string    `json:"account" gorm:"uniqueIndex:idx_game_account;not null"`
	DisplayName  string    `json:"display_name"`
	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
}

// GameResult is one settled leaderboard row. Append-only.
type GameResult struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	GameID    string    `json:"game_id" gorm:"uniqueIndex:idx_result_game_account;not null"`
	Account   string    `json:"account" gorm:"uniqueIndex:idx_result_game_account;not null"`
	Rank      int       `json:"rank"` // 1-based
	ReturnBps int64     `json:"return_bps"`
	Prize     uint64    `json:"prize"` // micro-USDC, zero below rank 3
	SettledAt time.Time `json:"settled_at"`
}

// SettlementReport is the archival form of one settlement, uploaded to
// object storage after commit (best effort).
type SettlementReport struct {
	GameID    string       `json:"game_id"`
	Mode      string       `json:"mode"`
	PrizePool uint64       `json:"prize_pool"`
	Winners   []string     `json:"winners"`
	Results   []GameResult `json:"results"`
	SettledAt time.Time    `json:"settled_at"`
}
