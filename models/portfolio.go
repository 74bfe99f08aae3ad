package models

import (
	"fmt"
	"time"
)

// CryptoHolding is one slot of a drafted portfolio. Allocation is a whole
// percent; a valid portfolio's allocations sum to exactly 100.
type CryptoHolding struct {
	Symbol            string `json:"symbol"`
	AllocationPercent int64  `json:"allocation_percent"`
}

// Portfolio is one account's draft for one game. Resubmitting while the game
// is open overwrites the previous draft.
type Portfolio struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid"`
	GameID      string          `json:"game_id" gorm:"uniqueIndex:idx_portfolio_game_account;not null"`
	Account     string          `json:"account" gorm:"uniqueIndex:idx_portfolio_game_account;not null"`
	Holdings    []CryptoHolding `json:"holdings" gorm:"type:jsonb;serializer:json"`
	SubmittedAt time.Time       `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// ValidateHoldings enforces the draft rules: 1..maxSize holdings, supported
// symbols, no duplicates, positive allocations summing to exactly 100.
func ValidateHoldings(holdings []CryptoHolding, maxSize int) error {
	if maxSize <= 0 || maxSize > MaxPortfolioSize {
		maxSize = MaxPortfolioSize
	}
	if len(holdings) == 0 {
		return fmt.Errorf("portfolio must contain at least one holding")
	}
	if len(holdings) > maxSize {
		return fmt.Errorf("portfolio exceeds maximum size of %d", maxSize)
	}
	seen := make(map[string]bool, len(holdings))
	var total int64
	for _, h := range holdings {
		if !IsSupportedCrypto(h.Symbol) {
			return fmt.Errorf("unsupported cryptocurrency: %s", h.Symbol)
		}
		if seen[h.Symbol] {
			return fmt.Errorf("duplicate holding: %s", h.Symbol)
		}
		seen[h.Symbol] = true
		if h.AllocationPercent <= 0 || h.AllocationPercent > 100 {
			return fmt.Errorf("allocation for %s must be between 1 and 100", h.Symbol)
		}
		total += h.AllocationPercent
	}
	if total != 100 {
		return fmt.Errorf("allocations must sum to 100, got %d", total)
	}
	return nil
}

// EqualSplitHoldings builds a portfolio from bare symbols, splitting 100
// percent evenly and giving the truncation remainder to the first pick so the sum
// stays exactly 100.
func EqualSplitHoldings(symbols []string) []CryptoHolding {
	if len(symbols) == 0 {
		return nil
	}
	base := int64(100 / len(symbols))
	rem := int64(100 % len(symbols))
	holdings := make([]CryptoHolding, len(symbols))
	for i, s := range symbols {
		alloc := base
		if i == 0 {
			alloc += rem
		}
		holdings[i] = CryptoHolding{Symbol: s, AllocationPercent: alloc}
	}
	return holdings
}
