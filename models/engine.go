package models

import (
	"time"
)

// IDCounter backs deterministic per-instance ID sequences ("game_N",
// "trad-league-N", "market_N"). Incremented inside the creating transaction.
type IDCounter struct {
	Name  string `gorm:"primaryKey"`
	Value uint64 `gorm:"default:0"`
}

// ProcessedMessage records an envelope a receiver has already applied.
// Delivery is at-least-once; this table makes application idempotent.
type ProcessedMessage struct {
	EnvelopeID  string    `gorm:"primaryKey;type:uuid"`
	Instance    string    `gorm:"index;not null"`
	Kind        string    `gorm:"not null"`
	ProcessedAt time.Time `gorm:"autoCreateTime"`
}

// PriceQuote is the cached latest price for one symbol, maintained by the
// price feed worker and read by the scheduler when building snapshots.
type PriceQuote struct {
	Symbol     string    `json:"symbol" gorm:"primaryKey"`
	PriceMicro uint64    `json:"price_micro"`
	FetchedAt  time.Time `json:"fetched_at"`
}
