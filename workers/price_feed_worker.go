package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"coindrafts-engine/models"
	"coindrafts-engine/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceFeedClient polls an external quote service and mirrors the latest
// micro-unit price per symbol into the price_quotes table, which the
// instances read when they need a snapshot.
type PriceFeedClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

// NewPriceFeedClient returns nil when PRICE_FEED_URL is unset; the caller
// then seeds static quotes so local settlement still works.
func NewPriceFeedClient(db *gorm.DB) *PriceFeedClient {
	baseURL := os.Getenv("PRICE_FEED_URL")
	if baseURL == "" {
		return nil
	}
	return &PriceFeedClient{
		BaseURL:    baseURL,
		Token:      os.Getenv("PRICE_FEED_TOKEN"),
		DB:         db,
		HTTPClient: utils.HTTPClient,
	}
}

func (c *PriceFeedClient) FetchQuotes(ctx context.Context) ([]models.PriceQuote, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/v1/prices", c.BaseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("X-Service-Token", c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call price feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("price feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Prices []models.PriceQuote `json:"prices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode price feed response: %w", err)
	}
	return response.Prices, nil
}

// PollPrices upserts quote batches on a fixed interval until ctx ends.
func PollPrices(ctx context.Context, client *PriceFeedClient, pollInterval time.Duration) {
	log.Println("Starting price feed polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price feed polling stopped.")
			return
		case <-ticker.C:
			quotes, err := client.FetchQuotes(ctx)
			if err != nil {
				log.Printf("❌ Error polling price feed: %v", err)
				continue
			}
			if len(quotes) == 0 {
				continue
			}
			now := time.Now().UTC()
			for i := range quotes {
				quotes[i].FetchedAt = now
			}
			if err := client.DB.Clauses(
				clause.OnConflict{
					Columns:   []clause.Column{{Name: "symbol"}},
					DoUpdates: clause.AssignmentColumns([]string{"price_micro", "fetched_at"}),
				},
			).Create(&quotes).Error; err != nil {
				log.Printf("❌ Failed to upsert %d quote(s): %v", len(quotes), err)
				continue
			}
			log.Printf("📥 Upserted %d price quote(s)", len(quotes))
		}
	}
}

// SeedStaticQuotes loads a fixed price set for environments with no feed.
// Values are micro-units.
func SeedStaticQuotes(db *gorm.DB) error {
	static := map[string]uint64{
		"BTC":   45_000_000_000,
		"ETH":   2_800_000_000,
		"SOL":   95_000_000,
		"AVAX":  38_000_000,
		"MATIC": 850_000,
		"ADA":   480_000,
		"DOT":   7_200_000,
		"LINK":  14_500_000,
		"UNI":   6_300_000,
		"ATOM":  9_800_000,
		"XRP":   520_000,
		"DOGE":  80_000,
		"LTC":   72_000_000,
		"NEAR":  3_400_000,
		"APT":   8_900_000,
	}
	now := time.Now().UTC()
	quotes := make([]models.PriceQuote, 0, len(static))
	for _, symbol := range models.SupportedCryptocurrencies {
		quotes = append(quotes, models.PriceQuote{
			Symbol:     symbol,
			PriceMicro: static[symbol],
			FetchedAt:  now,
		})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_micro", "fetched_at"}),
	}).Create(&quotes).Error
}
