package models

import (
	"time"
)

// PredictionMarket is a price-prediction contest over a single asset. IDs
// are counter-derived ("market_3").
type PredictionMarket struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Creator     string `json:"creator" gorm:"index;not null"`
	Asset       string `json:"asset" gorm:"not null"`
	Description string `json:"description,omitempty"`
	EntryFee    uint64 `json:"entry_fee"` // micro-USDC per prediction

	Status     string  `json:"status" gorm:"default:'active';index"`
	FinalPrice *uint64 `json:"final_price,omitempty"` // micro-units, set at settlement

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Prediction is one account's range bet on a market. Resubmitting while the
// market is active overwrites the previous bet.
type Prediction struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	MarketID   string `json:"market_id" gorm:"uniqueIndex:idx_prediction_market_account;not null"`
	Account    string `json:"account" gorm:"uniqueIndex:idx_prediction_market_account;not null"`
	LowerBound uint64 `json:"lower_bound"` // micro-units
	UpperBound uint64 `json:"upper_bound"` // micro-units
	Confidence int64  `json:"confidence"`  // 1..100

	// Settlement outcome
	Hit           bool   `json:"hit"`
	MultiplierBps int64  `json:"multiplier_bps"` // effective multiplier, x10000
	Reward        uint64 `json:"reward"`         // micro-USDC, zero on miss

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
