package models

import (
	"math/bits"
	"time"
)

// Tournament types supported by the leagues engine.
const (
	TournamentSingleElimination = "single_elimination"
	TournamentRoundRobin        = "round_robin"
	TournamentSwiss             = "swiss"
	TournamentLeague            = "league"
)

// Tournament statuses. Registration plays the role of the open phase.
const (
	TournamentRegistration = "registration"
	TournamentInProgress   = "in_progress"
	TournamentCompleted    = "completed"
	TournamentCancelled    = "cancelled"
)

// Tournament is a leagues-engine contest. IDs are counter-derived
// ("trad-league-4"). GameID is set only when the tournament was created on
// behalf of a hub game; locally created tournaments leave it empty and send
// no completion notification.
type Tournament struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id,omitempty" gorm:"index"`
	Name   string `json:"name" gorm:"not null"`
	Slug   string `json:"slug" gorm:"index"`
	Type   string `json:"type" gorm:"default:'league'"`

	Status          string `json:"status" gorm:"default:'registration';index"`
	EntryFee        uint64 `json:"entry_fee"` // micro-USDC
	MaxParticipants int    `json:"max_participants"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:10"`

	CurrentRound int `json:"current_round" gorm:"default:0"`
	MaxRounds    int `json:"max_rounds"`

	Participants []string `json:"participants,omitempty" gorm:"type:jsonb;serializer:json"`

	StartPrices PriceTable `json:"start_prices,omitempty" gorm:"type:jsonb;serializer:json"`
	EndPrices   PriceTable `json:"end_prices,omitempty" gorm:"type:jsonb;serializer:json"`

	Winners        []string `json:"winners,omitempty" gorm:"type:jsonb;serializer:json"`
	TotalPrizePool uint64   `json:"total_prize_pool"`

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// HasParticipant reports membership without touching the DB.
func (t *Tournament) HasParticipant(account string) bool {
	for _, p := range t.Participants {
		if p == account {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant cap is reached.
func (t *Tournament) IsFull() bool {
	return len(t.Participants) >= t.MaxParticipants
}

// MaxRoundsFor derives the round count from the format and the cap.
func MaxRoundsFor(tournamentType string, maxParticipants int) int {
	if maxParticipants < 2 {
		maxParticipants = 2
	}
	switch tournamentType {
	case TournamentSingleElimination, TournamentSwiss:
		return bits.Len(uint(maxParticipants - 1)) // ceil(log2(n))
	case TournamentRoundRobin:
		return maxParticipants - 1
	case TournamentLeague:
		return 2 * (maxParticipants - 1)
	default:
		return 1
	}
}

// TournamentPortfolio is one account's ranked picks for one round. Picks are
// ordered by conviction; scoring weights them by position.
type TournamentPortfolio struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	TournamentID  string    `json:"tournament_id" gorm:"uniqueIndex:idx_tp_round_account;not null"`
	Round         int       `json:"round" gorm:"uniqueIndex:idx_tp_round_account;not null"`
	Account       string    `json:"account" gorm:"uniqueIndex:idx_tp_round_account;not null"`
	Picks         []string  `json:"picks" gorm:"type:jsonb;serializer:json"`
	StrategyNotes string    `json:"strategy_notes,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TournamentResult is one settled standings row. Append-only.
type TournamentResult struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	TournamentID string    `json:"tournament_id" gorm:"uniqueIndex:idx_tr_tournament_account;not null"`
	Account      string    `json:"account" gorm:"uniqueIndex:idx_tr_tournament_account;not null"`
	Rank         int       `json:"rank"`
	ScoreBps     int64     `json:"score_bps"`
	Prize        uint64    `json:"prize"`
	SettledAt    time.Time `json:"settled_at"`
}
